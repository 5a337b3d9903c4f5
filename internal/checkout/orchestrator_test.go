package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerzombo-blip/DonFood/internal/cart"
	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
	"github.com/rogerzombo-blip/DonFood/internal/gateway"
)

// fakeBackend implements PaymentBackend for testing
type fakeBackend struct {
	healthy     bool
	healthCalls int
	handle      gateway.IntentHandle
	createErr   error
	createCalls int
	lastAmount  int64
	lastMeta    map[string]any

	confirm    gateway.ConfirmStatus
	confirmErr error
}

func (f *fakeBackend) CheckHealth(context.Context) bool {
	f.healthCalls++
	return f.healthy
}

func (f *fakeBackend) CreatePaymentIntent(_ context.Context, amount int64, _ string, metadata map[string]any) (gateway.IntentHandle, error) {
	f.createCalls++
	f.lastAmount = amount
	f.lastMeta = metadata
	if f.createErr != nil {
		return gateway.IntentHandle{}, f.createErr
	}
	return f.handle, nil
}

func (f *fakeBackend) ConfirmPaymentStatus(context.Context, string) (gateway.ConfirmStatus, error) {
	return f.confirm, f.confirmErr
}

type fakeElement struct {
	status domain.IntentStatus
	err    error
}

func (f *fakeElement) ConfirmPayment(context.Context, string) (domain.IntentStatus, error) {
	return f.status, f.err
}

func filledLedger(t *testing.T, mode domain.FulfillmentMode) *cart.Ledger {
	t.Helper()
	l := cart.NewLedger()
	l.AddItem(domain.LineItem{
		ID:    "m1",
		Name:  "Feijoada",
		Price: decimal.RequireFromString("18.50"),
	}, domain.Restaurant{ID: "r1", Name: "Sabor do Brasil"})
	l.SetMode(mode)
	return l
}

func fillValidDetails(o *Orchestrator) {
	o.UpdateCustomerDetails(FieldName, "Maria Silva")
	o.UpdateCustomerDetails(FieldEmail, "maria@example.com")
	o.UpdateCustomerDetails(FieldPhone, "5551234567")
	o.UpdateCustomerDetails(FieldAddress, "Rua das Flores 123")
	o.UpdateCustomerDetails(FieldCity, "Lisboa")
	o.UpdateCustomerDetails(FieldZipCode, "10001")
}

func TestOpenCheckout_EmptyCart(t *testing.T) {
	o := New(cart.NewLedger(), &fakeBackend{healthy: true}, &fakeElement{})

	err := o.OpenCheckout(context.Background())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StepClosed, o.Step())
	assert.Equal(t, "Your cart is empty", o.Err())
}

func TestOpenCheckout_ProbesHealthOnce(t *testing.T) {
	be := &fakeBackend{healthy: true}
	o := New(filledLedger(t, domain.ModeDelivery), be, &fakeElement{})

	require.NoError(t, o.OpenCheckout(context.Background()))
	fillValidDetails(o)
	require.NoError(t, o.ProceedToPayment(context.Background()))

	assert.Equal(t, StepPayment, o.Step())
	assert.True(t, o.ServerOnline())
	assert.Equal(t, 1, be.healthCalls, "health is probed at open, not re-checked per transition")
}

func TestProceedToPayment_InvalidDetailsStaysPut(t *testing.T) {
	be := &fakeBackend{healthy: true}
	o := New(filledLedger(t, domain.ModeDelivery), be, &fakeElement{})
	require.NoError(t, o.OpenCheckout(context.Background()))

	o.UpdateCustomerDetails(FieldName, "M") // too short

	err := o.ProceedToPayment(context.Background())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Message)
	assert.Equal(t, StepDetails, o.Step())
	assert.Zero(t, be.createCalls, "validation failures must not reach the network")
}

func TestProceedToPayment_Online(t *testing.T) {
	be := &fakeBackend{
		healthy: true,
		handle: gateway.IntentHandle{
			ClientSecret:    "pi_123_secret_abc",
			PaymentIntentID: "pi_123",
			Amount:          2100,
			Currency:        "usd",
		},
	}
	o := New(filledLedger(t, domain.ModeDelivery), be, &fakeElement{})
	require.NoError(t, o.OpenCheckout(context.Background()))
	fillValidDetails(o)

	require.NoError(t, o.ProceedToPayment(context.Background()))

	assert.Equal(t, StepPayment, o.Step())
	assert.Equal(t, "pi_123_secret_abc", o.ClientSecret())
	assert.Equal(t, "pi_123", o.PaymentIntentID())
	assert.EqualValues(t, 2100, be.lastAmount, "18.50 + 2.50 delivery fee in minor units")

	order := o.Order()
	require.NotNil(t, order)
	assert.Equal(t, order.OrderID, be.lastMeta["orderId"])
	assert.Equal(t, "maria@example.com", be.lastMeta["customerEmail"])
	assert.Equal(t, "delivery", be.lastMeta["deliveryMode"])
	assert.Equal(t, 1, be.lastMeta["itemCount"])
}

func TestProceedToPayment_GatewayFailureStaysInDetails(t *testing.T) {
	be := &fakeBackend{healthy: true, createErr: errors.New("Your card gateway hates you")}
	o := New(filledLedger(t, domain.ModeDelivery), be, &fakeElement{})
	require.NoError(t, o.OpenCheckout(context.Background()))
	fillValidDetails(o)

	err := o.ProceedToPayment(context.Background())

	require.Error(t, err)
	assert.Equal(t, StepDetails, o.Step())
	assert.Equal(t, "Your card gateway hates you", o.Err())
	assert.False(t, o.IsProcessing())
}

func TestProceedToPayment_OfflineSkipsNetwork(t *testing.T) {
	be := &fakeBackend{healthy: false}
	o := New(filledLedger(t, domain.ModePickup), be, &fakeElement{})
	require.NoError(t, o.OpenCheckout(context.Background()))
	fillValidDetails(o)

	require.NoError(t, o.ProceedToPayment(context.Background()))

	assert.Equal(t, StepPayment, o.Step())
	assert.Zero(t, be.createCalls)
	assert.Empty(t, o.ClientSecret())
}

func TestProceedToPayment_RejectedOutsideDetails(t *testing.T) {
	o := New(filledLedger(t, domain.ModeDelivery), &fakeBackend{}, &fakeElement{})

	err := o.ProceedToPayment(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirmPayment_DemoModeSucceedsAndClearsCart(t *testing.T) {
	ledger := filledLedger(t, domain.ModeDelivery)
	be := &fakeBackend{healthy: false}
	o := New(ledger, be, &fakeElement{})
	o.demo = &DemoConfirmer{Delay: 5 * time.Millisecond}
	require.NoError(t, o.OpenCheckout(context.Background()))
	fillValidDetails(o)
	require.NoError(t, o.ProceedToPayment(context.Background()))

	require.NoError(t, o.ConfirmPayment(context.Background()))

	assert.Equal(t, StepSuccess, o.Step())
	assert.True(t, ledger.IsEmpty(), "cart clears on success")
	assert.False(t, ledger.PanelOpen())

	res := o.PaymentResult()
	require.NotNil(t, res)
	assert.True(t, res.Success)
	assert.Contains(t, res.PaymentIntentID, "pi_demo_")
	assert.True(t, res.Amount.Equal(decimal.RequireFromString("21.00")))
}

func TestConfirmPayment_LiveFailureEntersError(t *testing.T) {
	be := &fakeBackend{
		healthy: true,
		handle:  gateway.IntentHandle{ClientSecret: "sec", PaymentIntentID: "pi_1"},
	}
	element := &fakeElement{err: errors.New("Your card was declined")}
	o := New(filledLedger(t, domain.ModeDelivery), be, element)
	require.NoError(t, o.OpenCheckout(context.Background()))
	fillValidDetails(o)
	require.NoError(t, o.ProceedToPayment(context.Background()))

	err := o.ConfirmPayment(context.Background())

	require.Error(t, err)
	assert.Equal(t, StepError, o.Step())
	assert.Equal(t, "Your card was declined", o.Err())
	assert.False(t, o.IsProcessing())
}

func TestHandlePaymentSuccess_Idempotent(t *testing.T) {
	ledger := filledLedger(t, domain.ModeDelivery)
	be := &fakeBackend{healthy: false}
	o := New(ledger, be, &fakeElement{})
	require.NoError(t, o.OpenCheckout(context.Background()))
	fillValidDetails(o)
	require.NoError(t, o.ProceedToPayment(context.Background()))

	o.HandlePaymentSuccess("pi_abc")
	first := o.PaymentResult()

	// a new item lands in the cart after checkout completed
	ledger.AddItem(domain.LineItem{ID: "m9", Name: "Flan", Price: decimal.RequireFromString("4.00")},
		domain.Restaurant{ID: "r1"})

	o.HandlePaymentSuccess("pi_other")

	assert.Equal(t, StepSuccess, o.Step())
	assert.Equal(t, first.PaymentIntentID, o.PaymentResult().PaymentIntentID)
	assert.Len(t, ledger.Items(), 1, "second call must not re-clear the cart")
}

func TestCloseCheckout_NoopWhileProcessing(t *testing.T) {
	o := New(filledLedger(t, domain.ModeDelivery), &fakeBackend{}, &fakeElement{})
	o.step = StepProcessing
	o.processing = true

	o.CloseCheckout()

	assert.Equal(t, StepProcessing, o.Step())
	assert.True(t, o.IsProcessing())
}

func TestCloseCheckout_KeepsOrderDropsSecret(t *testing.T) {
	be := &fakeBackend{
		healthy: true,
		handle:  gateway.IntentHandle{ClientSecret: "sec", PaymentIntentID: "pi_1"},
	}
	o := New(filledLedger(t, domain.ModeDelivery), be, &fakeElement{})
	require.NoError(t, o.OpenCheckout(context.Background()))
	fillValidDetails(o)
	require.NoError(t, o.ProceedToPayment(context.Background()))

	o.CloseCheckout()

	assert.Equal(t, StepClosed, o.Step())
	assert.Empty(t, o.ClientSecret())
	assert.NotNil(t, o.Order(), "only ResetCheckout discards the order")
}

func TestGoBackToDetails_ClearsError(t *testing.T) {
	o := New(filledLedger(t, domain.ModeDelivery), &fakeBackend{healthy: false}, &fakeElement{})
	require.NoError(t, o.OpenCheckout(context.Background()))
	fillValidDetails(o)
	require.NoError(t, o.ProceedToPayment(context.Background()))
	o.HandlePaymentError(errors.New("declined"))
	require.Equal(t, StepError, o.Step())

	require.NoError(t, o.GoBackToDetails())

	assert.Equal(t, StepDetails, o.Step())
	assert.Empty(t, o.Err())
}

func TestRetryPayment_FromErrorOnly(t *testing.T) {
	o := New(filledLedger(t, domain.ModeDelivery), &fakeBackend{healthy: false}, &fakeElement{})
	require.NoError(t, o.OpenCheckout(context.Background()))
	assert.ErrorIs(t, o.RetryPayment(), ErrInvalidTransition)

	fillValidDetails(o)
	require.NoError(t, o.ProceedToPayment(context.Background()))
	o.HandlePaymentError(errors.New("declined"))

	require.NoError(t, o.RetryPayment())
	assert.Equal(t, StepPayment, o.Step())
}

func TestResetCheckout_FullTeardown(t *testing.T) {
	o := New(filledLedger(t, domain.ModeDelivery), &fakeBackend{healthy: false}, &fakeElement{})
	require.NoError(t, o.OpenCheckout(context.Background()))
	fillValidDetails(o)
	require.NoError(t, o.ProceedToPayment(context.Background()))
	o.HandlePaymentSuccess("pi_1")

	o.ResetCheckout()

	assert.Equal(t, StepClosed, o.Step())
	assert.Nil(t, o.Order())
	assert.Nil(t, o.PaymentResult())
	assert.Empty(t, o.Err())
	assert.Equal(t, domain.CustomerDetails{}, o.Customer())
}

func TestOrderID_SortsByTime(t *testing.T) {
	t0 := time.UnixMilli(1700000000000)
	t1 := time.UnixMilli(1700000001000)
	a := domain.NewOrderID(t0)
	b := domain.NewOrderID(t1)

	assert.True(t, a < b, "ids must sort by creation time: %s vs %s", a, b)
	assert.Regexp(t, `^ORD-[0-9A-Z]+$`, a)
}
