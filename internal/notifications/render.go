package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/divya8341883853/clothstore-backend/pkg/outbox/payloads"
)

var orderConfirmationHTML = htmltemplate.Must(htmltemplate.New("order_confirmation").Parse(`<h1>Thanks for your order!</h1>
<p>Order <strong>{{.OrderID}}</strong> was placed on {{.OrderDate.Format "Jan 2, 2006"}}.</p>
<table>
  <tr><th>Item</th><th>Size</th><th>Qty</th><th>Price</th></tr>
{{- range .Items}}
  <tr><td>{{.Name}}</td><td>{{.Size}}</td><td>{{.Quantity}}</td><td>${{.Price}}</td></tr>
{{- end}}
</table>
<p>Total: <strong>${{.Total}}</strong></p>`))

var orderConfirmationText = texttemplate.Must(texttemplate.New("order_confirmation").Parse(`Thanks for your order!

Order {{.OrderID}} was placed on {{.OrderDate.Format "Jan 2, 2006"}}.

{{range .Items}}- {{.Name}} ({{.Size}}) x{{.Quantity}} ${{.Price}}
{{end}}
Total: ${{.Total}}`))

// RenderOrderConfirmation builds the confirmation email bodies.
func RenderOrderConfirmation(payload payloads.OrderConfirmed) (subject, htmlBody, textBody string, err error) {
	subject = fmt.Sprintf("Order confirmed: %s", payload.OrderID)

	var html bytes.Buffer
	if err = orderConfirmationHTML.Execute(&html, payload); err != nil {
		return "", "", "", fmt.Errorf("render html body: %w", err)
	}
	var text bytes.Buffer
	if err = orderConfirmationText.Execute(&text, payload); err != nil {
		return "", "", "", fmt.Errorf("render text body: %w", err)
	}
	return subject, html.String(), text.String(), nil
}
