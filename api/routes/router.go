package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/divya8341883853/clothstore-backend/api/controllers"
	"github.com/divya8341883853/clothstore-backend/api/middleware"
	authsvc "github.com/divya8341883853/clothstore-backend/internal/auth"
	cartsvc "github.com/divya8341883853/clothstore-backend/internal/cart"
	checkoutsvc "github.com/divya8341883853/clothstore-backend/internal/checkout"
	ordersvc "github.com/divya8341883853/clothstore-backend/internal/orders"
	productsvc "github.com/divya8341883853/clothstore-backend/internal/products"
	"github.com/divya8341883853/clothstore-backend/pkg/config"
	"github.com/divya8341883853/clothstore-backend/pkg/db"
	"github.com/divya8341883853/clothstore-backend/pkg/logger"
	"github.com/divya8341883853/clothstore-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	pingers map[string]db.Pinger,
	authService authsvc.Service,
	productService productsvc.Service,
	cartService cartsvc.Service,
	cartObserver *cartsvc.Observer,
	checkoutService checkoutsvc.Service,
	orderService ordersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/health", controllers.Health(pingers, logg))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(authService, logg))
		r.Post("/login", controllers.Login(authService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(productService, logg))
		r.Get("/{productID}", controllers.GetProduct(productService, logg))
	})

	// Cart routes serve both guests and signed-in shoppers: MaybeAuth picks
	// up the user when a token is present, Identity falls back to (or
	// mints) the anonymous session.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.MaybeAuth(cfg.JWT, logg))
		r.Use(middleware.Identity(logg))

		r.Get("/", controllers.GetCart(cartService, logg))
		r.Post("/items", controllers.AddCartLine(cartService, logg))
		r.Patch("/items/{lineID}", controllers.UpdateCartLine(cartService, logg))
		r.Delete("/items/{lineID}", controllers.RemoveCartLine(cartService, logg))
		r.Delete("/", controllers.ClearCart(cartService, logg))
		r.Get("/count", controllers.CartCount(cartService, logg))
		r.Get("/count/watch", controllers.WatchCartCount(cartObserver, logg))

		r.With(middleware.RequireAuth(cfg.JWT, logg)).Post("/adopt", controllers.AdoptCart(cartService, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWT, logg))
		r.Post("/", controllers.PlaceOrder(checkoutService, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWT, logg))
		r.Get("/", controllers.ListOrders(orderService, logg))
		r.Get("/{orderID}", controllers.GetOrder(orderService, logg))
	})

	return r
}
