package payments

import (
	"context"

	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
)

// CardGateway is the card processor behind the service. The Stripe
// implementation lives in stripe_gateway.go; tests use fakes.
type CardGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*domain.PaymentIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*domain.PaymentIntent, error)
	CreateRefund(ctx context.Context, paymentIntentID string, amount int64, reason string) (*domain.Refund, error)
}

// EventStore remembers webhook delivery ids. MarkSeen reports true the
// first time an id is seen so retried deliveries can be spotted.
type EventStore interface {
	MarkSeen(ctx context.Context, eventID string) (bool, error)
}
