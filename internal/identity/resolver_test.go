package identity

import (
	"testing"

	"github.com/google/uuid"

	"github.com/divya8341883853/clothstore-backend/pkg/enums"
)

func TestResolve_AuthenticatedUserWins(t *testing.T) {
	userID := uuid.New()

	res, err := Resolve(userID.String(), "some-session-token")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Minted {
		t.Fatal("expected no minted token for authenticated request")
	}
	if res.Identity.Kind != enums.OwnerKindUser {
		t.Fatalf("kind = %s, want user", res.Identity.Kind)
	}
	if res.Identity.Ref != userID.String() {
		t.Fatalf("ref = %s, want %s", res.Identity.Ref, userID)
	}
}

func TestResolve_SessionTokenForGuests(t *testing.T) {
	res, err := Resolve("", "guest-token-1")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Minted {
		t.Fatal("expected existing token to be reused")
	}
	if res.Identity.Kind != enums.OwnerKindSession || res.Identity.Ref != "guest-token-1" {
		t.Fatalf("unexpected identity %s", res.Identity)
	}
}

func TestResolve_MintsTokenOnFirstContact(t *testing.T) {
	res, err := Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !res.Minted {
		t.Fatal("expected a freshly minted token")
	}
	if res.Identity.Kind != enums.OwnerKindSession {
		t.Fatalf("kind = %s, want session", res.Identity.Kind)
	}
	if _, err := uuid.Parse(res.Identity.Ref); err != nil {
		t.Fatalf("minted token is not a uuid: %v", err)
	}
}

func TestResolve_RejectsMalformedUserID(t *testing.T) {
	if _, err := Resolve("not-a-uuid", ""); err == nil {
		t.Fatal("expected error for malformed user id")
	}
}
