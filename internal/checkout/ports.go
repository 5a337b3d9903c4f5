package checkout

import (
	"context"

	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
	"github.com/rogerzombo-blip/DonFood/internal/gateway"
)

// PaymentBackend is the slice of the gateway client the orchestrator
// needs. *gateway.Client satisfies it.
type PaymentBackend interface {
	CheckHealth(ctx context.Context) bool
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]any) (gateway.IntentHandle, error)
	ConfirmPaymentStatus(ctx context.Context, paymentIntentID string) (gateway.ConfirmStatus, error)
}

// SecureElement is the delegated card-collection capability. It owns the
// PCI scope: this system hands it a client secret and gets back a status,
// never raw card data.
type SecureElement interface {
	ConfirmPayment(ctx context.Context, clientSecret string) (domain.IntentStatus, error)
}

type ConfirmResult struct {
	PaymentIntentID string
	Status          domain.IntentStatus
}

// Confirmer is the one capability that differs between live and demo
// mode; the state machine itself is strategy-agnostic.
type Confirmer interface {
	Confirm(ctx context.Context, clientSecret, paymentIntentID string) (ConfirmResult, error)
}
