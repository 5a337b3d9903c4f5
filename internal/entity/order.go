package domain

import (
	"strconv"
	"strings"
	"time"
)

type CustomerDetails struct {
	Name         string
	Email        string
	Phone        string
	Address      string
	City         string
	ZipCode      string
	Instructions string
}

// Order is an immutable snapshot taken when the customer leaves the
// details step. A retry after a failed payment produces a fresh Order
// with a fresh id.
type Order struct {
	OrderID   string
	Items     []LineItem
	Totals    Totals
	Mode      FulfillmentMode
	Customer  CustomerDetails
	CreatedAt time.Time
}

// NewOrderID encodes the moment in base-36: ids sort by creation time
// and stay short enough to read over the phone. No central counter.
func NewOrderID(now time.Time) string {
	return "ORD-" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
}
