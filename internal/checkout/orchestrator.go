// Package checkout drives a single session's checkout: collect details,
// create a payment intent, hand off to the secure element, reconcile the
// result. One orchestrator per session; it borrows the session's cart
// ledger and talks to the payment backend through a typed client.
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerzombo-blip/DonFood/internal/cart"
	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
	"github.com/rogerzombo-blip/DonFood/internal/logging"
)

const currency = "usd"

// CustomerField names a mutable field of the customer form.
type CustomerField string

const (
	FieldName         CustomerField = "name"
	FieldEmail        CustomerField = "email"
	FieldPhone        CustomerField = "phone"
	FieldAddress      CustomerField = "address"
	FieldCity         CustomerField = "city"
	FieldZipCode      CustomerField = "zipCode"
	FieldInstructions CustomerField = "instructions"
)

type Orchestrator struct {
	mu      sync.Mutex
	ledger  *cart.Ledger
	backend PaymentBackend

	live Confirmer
	demo Confirmer
	now  func() time.Time

	step       Step
	online     bool
	processing bool
	errMsg     string

	customer        domain.CustomerDetails
	order           *domain.Order
	result          *domain.PaymentResult
	clientSecret    string
	paymentIntentID string
}

func New(ledger *cart.Ledger, backend PaymentBackend, element SecureElement) *Orchestrator {
	return &Orchestrator{
		ledger:  ledger,
		backend: backend,
		live:    NewSecureElementAdapter(element, backend),
		demo:    NewDemoConfirmer(),
		now:     time.Now,
		step:    StepClosed,
	}
}

// OpenCheckout moves closed→details, guarded by a non-empty cart. The
// backend health probe runs here, once; the answer picks live vs demo
// mode for the rest of the session.
func (o *Orchestrator) OpenCheckout(ctx context.Context) error {
	o.mu.Lock()
	if o.ledger.IsEmpty() {
		o.errMsg = "Your cart is empty"
		o.mu.Unlock()
		return &ValidationError{"Your cart is empty"}
	}
	if o.step != StepClosed {
		o.mu.Unlock()
		return ErrInvalidTransition
	}
	o.mu.Unlock()

	online := o.backend.CheckHealth(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.online = online
	o.step = StepDetails
	o.errMsg = ""
	o.clientSecret = ""
	o.paymentIntentID = ""
	if !online {
		logging.FromCtx(ctx).Info("payment backend unreachable, demo mode for this session")
	}
	return nil
}

// CloseCheckout discards the in-progress client secret but keeps the
// Order (only ResetCheckout drops that). No-op while a confirmation is
// in flight.
func (o *Orchestrator) CloseCheckout() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.processing || o.step == StepProcessing {
		return
	}
	o.step = StepClosed
	o.errMsg = ""
	o.clientSecret = ""
	o.paymentIntentID = ""
}

func (o *Orchestrator) UpdateCustomerDetails(field CustomerField, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch field {
	case FieldName:
		o.customer.Name = value
	case FieldEmail:
		o.customer.Email = value
	case FieldPhone:
		o.customer.Phone = value
	case FieldAddress:
		o.customer.Address = value
	case FieldCity:
		o.customer.City = value
	case FieldZipCode:
		o.customer.ZipCode = value
	case FieldInstructions:
		o.customer.Instructions = value
	}
}

// ProceedToPayment validates the form, snapshots the Order and, when the
// backend is reachable, creates the payment intent. Failure of any kind
// leaves the machine in details with a message; nothing advances.
func (o *Orchestrator) ProceedToPayment(ctx context.Context) error {
	o.mu.Lock()
	if o.step != StepDetails {
		o.mu.Unlock()
		return ErrInvalidTransition
	}
	if o.processing {
		o.mu.Unlock()
		return ErrInvalidTransition
	}

	snapshot := o.ledger.Snapshot()
	if err := ValidateCustomerDetails(o.customer, snapshot.Mode); err != nil {
		o.errMsg = err.Error()
		o.mu.Unlock()
		return err
	}

	totals := snapshot.Totals()
	order := &domain.Order{
		OrderID:   domain.NewOrderID(o.now()),
		Items:     snapshot.Items,
		Totals:    totals,
		Mode:      snapshot.Mode,
		Customer:  o.customer,
		CreatedAt: o.now(),
	}
	o.order = order
	o.errMsg = ""

	if !o.online {
		// Demo mode: no intent to create, straight to the payment step.
		o.step = StepPayment
		o.mu.Unlock()
		return nil
	}

	o.processing = true
	customer := o.customer
	o.mu.Unlock()

	handle, err := o.backend.CreatePaymentIntent(ctx, domain.MinorUnits(totals.Total), currency, map[string]any{
		"orderId":       order.OrderID,
		"customerEmail": customer.Email,
		"customerName":  customer.Name,
		"deliveryMode":  string(order.Mode),
		"itemCount":     len(order.Items),
	})

	o.mu.Lock()
	defer o.mu.Unlock()
	o.processing = false
	if err != nil {
		o.errMsg = err.Error()
		return err
	}
	o.clientSecret = handle.ClientSecret
	o.paymentIntentID = handle.PaymentIntentID
	o.step = StepPayment
	return nil
}

// ConfirmPayment runs the session's confirm strategy: the secure element
// in live mode, the fixed-delay simulation in demo mode. It owns the
// payment→processing edge and routes the result through
// HandlePaymentSuccess / HandlePaymentError.
func (o *Orchestrator) ConfirmPayment(ctx context.Context) error {
	o.mu.Lock()
	if o.step != StepPayment || o.processing {
		o.mu.Unlock()
		return ErrInvalidTransition
	}
	o.step = StepProcessing
	o.processing = true
	confirmer := o.demo
	if o.online {
		confirmer = o.live
	}
	secret, intentID := o.clientSecret, o.paymentIntentID
	o.mu.Unlock()

	res, err := confirmer.Confirm(ctx, secret, intentID)
	if err != nil {
		o.HandlePaymentError(err)
		return err
	}
	o.HandlePaymentSuccess(res.PaymentIntentID)
	return nil
}

// HandlePaymentSuccess reconciles a successful confirmation: stamps the
// PaymentResult, clears the cart, closes the cart panel. Safe to call
// twice; the step guard makes the second call a no-op.
func (o *Orchestrator) HandlePaymentSuccess(paymentIntentID string) {
	o.mu.Lock()
	if !canTransition(o.step, StepSuccess) {
		o.mu.Unlock()
		return
	}
	if paymentIntentID == "" {
		paymentIntentID = o.paymentIntentID
	}
	amount := decimal.Zero
	if o.order != nil {
		amount = o.order.Totals.Total
	}
	o.result = &domain.PaymentResult{
		Success:         true,
		PaymentIntentID: paymentIntentID,
		Amount:          amount,
		Currency:        currency,
		Timestamp:       o.now(),
	}
	o.step = StepSuccess
	o.processing = false
	o.errMsg = ""
	o.mu.Unlock()

	o.ledger.Clear()
	o.ledger.ClosePanel()
}

func (o *Orchestrator) HandlePaymentError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !canTransition(o.step, StepError) {
		return
	}
	msg := "Payment failed"
	if err != nil {
		msg = err.Error()
	}
	o.errMsg = msg
	o.step = StepError
	o.processing = false
}

// GoBackToDetails is the retry path out of payment or error.
func (o *Orchestrator) GoBackToDetails() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step != StepPayment && o.step != StepError {
		return ErrInvalidTransition
	}
	o.step = StepDetails
	o.errMsg = ""
	return nil
}

// RetryPayment moves error→payment, keeping the Order and intent.
func (o *Orchestrator) RetryPayment() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step != StepError || !canTransition(o.step, StepPayment) {
		return ErrInvalidTransition
	}
	o.step = StepPayment
	o.errMsg = ""
	return nil
}

// ResetCheckout is the full teardown back to closed: order, result,
// error and the customer form all go back to empty defaults.
func (o *Orchestrator) ResetCheckout() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.step = StepClosed
	o.order = nil
	o.result = nil
	o.errMsg = ""
	o.processing = false
	o.clientSecret = ""
	o.paymentIntentID = ""
	o.customer = domain.CustomerDetails{}
}

func (o *Orchestrator) Step() Step {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step
}

func (o *Orchestrator) Order() *domain.Order {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.order == nil {
		return nil
	}
	cp := *o.order
	return &cp
}

func (o *Orchestrator) PaymentResult() *domain.PaymentResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.result == nil {
		return nil
	}
	cp := *o.result
	return &cp
}

func (o *Orchestrator) Err() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errMsg
}

func (o *Orchestrator) IsProcessing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.processing
}

func (o *Orchestrator) ServerOnline() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.online
}

func (o *Orchestrator) ClientSecret() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.clientSecret
}

func (o *Orchestrator) PaymentIntentID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.paymentIntentID
}

func (o *Orchestrator) Customer() domain.CustomerDetails {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.customer
}
