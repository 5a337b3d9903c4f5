// Package cart holds the session's cart ledger: line items, fulfillment
// mode and the derived totals. One ledger per shopper session; the
// checkout orchestrator borrows it, never owns it.
package cart

import (
	"fmt"
	"sync"
	"time"

	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
)

// How long an "added to cart" notice stays readable.
const noticeTTL = 3 * time.Second

type Notice struct {
	Message   string
	ExpiresAt time.Time
}

type Ledger struct {
	mu    sync.Mutex
	items []domain.LineItem
	mode  domain.FulfillmentMode

	panelOpen bool
	notice    *Notice

	now func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{mode: domain.ModeDelivery, now: time.Now}
}

// AddItem merges by the item's catalog key: re-adding the same dish bumps
// the quantity instead of growing the cart. Also raises a transient
// notice and opens the cart panel so the shopper sees progress.
func (l *Ledger) AddItem(item domain.LineItem, r domain.Restaurant) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := item.Key()
	for i := range l.items {
		if l.items[i].Key() == key {
			l.items[i].Quantity++
			l.postNotice(fmt.Sprintf("Added %s to cart", item.Name))
			l.panelOpen = true
			return
		}
	}

	item.OriginalID = key
	item.Quantity = 1
	item.RestaurantID = r.ID
	item.RestaurantName = r.Name
	l.items = append(l.items, item)

	l.postNotice(fmt.Sprintf("Added %s to cart", item.Name))
	l.panelOpen = true
}

// UpdateQuantity applies a delta to the line with the given id. A result
// of zero or less removes the line; an unknown id is a silent no-op.
func (l *Ledger) UpdateQuantity(id string, delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID != id {
			continue
		}
		if l.items[i].Quantity+delta <= 0 {
			l.items = append(l.items[:i], l.items[i+1:]...)
		} else {
			l.items[i].Quantity += delta
		}
		return
	}
}

func (l *Ledger) RemoveItem(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called once, after a successful payment.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

func (l *Ledger) SetMode(mode domain.FulfillmentMode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mode = mode
}

func (l *Ledger) Mode() domain.FulfillmentMode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mode
}

// Snapshot copies the current cart so callers can't reach back into the
// ledger's slice.
func (l *Ledger) Snapshot() domain.Cart {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]domain.LineItem, len(l.items))
	copy(items, l.items)
	return domain.Cart{Items: items, Mode: l.mode}
}

func (l *Ledger) Items() []domain.LineItem {
	return l.Snapshot().Items
}

// Totals is recomputed from the live cart on every call, never cached.
func (l *Ledger) Totals() domain.Totals {
	return l.Snapshot().Totals()
}

func (l *Ledger) TotalItems() int {
	return l.Snapshot().TotalItems()
}

func (l *Ledger) IsEmpty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items) == 0
}

func (l *Ledger) OpenPanel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.panelOpen = true
}

func (l *Ledger) ClosePanel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.panelOpen = false
}

func (l *Ledger) TogglePanel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.panelOpen = !l.panelOpen
}

func (l *Ledger) PanelOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.panelOpen
}

// Notice returns the current transient notice, hiding it once expired.
func (l *Ledger) Notice() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.notice == nil || l.now().After(l.notice.ExpiresAt) {
		l.notice = nil
		return "", false
	}
	return l.notice.Message, true
}

// caller holds l.mu
func (l *Ledger) postNotice(msg string) {
	l.notice = &Notice{Message: msg, ExpiresAt: l.now().Add(noticeTTL)}
}
