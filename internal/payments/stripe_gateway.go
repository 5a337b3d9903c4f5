package payments

import (
	"context"
	"errors"
	"time"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
)

// StripeGateway implements CardGateway against the Stripe API.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, unwrapStripe(err)
	}
	return fromStripeIntent(pi), nil
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, unwrapStripe(err)
	}
	return fromStripeIntent(pi), nil
}

func (g *StripeGateway) CreateRefund(ctx context.Context, paymentIntentID string, amount int64, reason string) (*domain.Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Reason:        stripe.String(reason),
	}
	params.Context = ctx
	if amount > 0 {
		params.Amount = stripe.Int64(amount)
	}

	r, err := g.api.Refunds.New(params)
	if err != nil {
		return nil, unwrapStripe(err)
	}
	return &domain.Refund{ID: r.ID, Amount: r.Amount, Status: string(r.Status)}, nil
}

func fromStripeIntent(pi *stripe.PaymentIntent) *domain.PaymentIntent {
	md := make(map[string]string, len(pi.Metadata))
	for k, v := range pi.Metadata {
		md[k] = v
	}
	return &domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       domain.IntentStatus(pi.Status),
		Created:      time.Unix(pi.Created, 0).UTC(),
		ReceiptEmail: pi.ReceiptEmail,
		Metadata:     md,
	}
}

// unwrapStripe surfaces the gateway's human-readable message instead of
// the SDK's serialized form.
func unwrapStripe(err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) && sErr.Msg != "" {
		return errors.New(sErr.Msg)
	}
	return err
}
