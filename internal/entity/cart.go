package domain

import "github.com/shopspring/decimal"

type FulfillmentMode string

const (
	ModeDelivery FulfillmentMode = "delivery"
	ModePickup   FulfillmentMode = "pickup"
)

// Pricing knobs shared by the ledger and the checkout flow.
var (
	DeliveryFee        = decimal.RequireFromString("2.50")
	PickupDiscountRate = decimal.RequireFromString("0.15")
)

// Restaurant is the slice of catalog data a cart line needs to keep.
type Restaurant struct {
	ID   string
	Name string
}

type LineItem struct {
	ID             string
	OriginalID     string
	Name           string
	Price          decimal.Decimal // major units (dollars)
	Quantity       int
	RestaurantID   string
	RestaurantName string
}

// Key identifies a dish across re-adds: the catalog id wins over the
// cart-local one so adding the same dish twice merges into one line.
func (li LineItem) Key() string {
	if li.OriginalID != "" {
		return li.OriginalID
	}
	return li.ID
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Cart struct {
	Items []LineItem
	Mode  FulfillmentMode
}

func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

func (c Cart) TotalItems() int {
	n := 0
	for _, li := range c.Items {
		n += li.Quantity
	}
	return n
}

type Totals struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// Totals derives pricing from the cart contents and fulfillment mode.
// Pure: no caching, safe to call on every render.
func (c Cart) Totals() Totals {
	subtotal := decimal.Zero
	for _, li := range c.Items {
		subtotal = subtotal.Add(li.LineTotal())
	}

	discount := decimal.Zero
	fee := decimal.Zero
	switch c.Mode {
	case ModePickup:
		discount = subtotal.Mul(PickupDiscountRate)
	case ModeDelivery:
		fee = DeliveryFee
	}

	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: fee,
		Total:       subtotal.Sub(discount).Add(fee),
	}
}
