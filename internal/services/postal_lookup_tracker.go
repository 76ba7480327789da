package services

import (
	"sync"

	"github.com/clinica-bage/app-rx/internal/utils"
)

// PostalLookupTracker follows the current value of one postal code field
// so that responses to lookups issued for earlier values can be dropped.
// Lookups are not de-duplicated; the tracker only decides which response
// is still relevant.
type PostalLookupTracker struct {
	mu      sync.Mutex
	current string
}

// PostalLookupTicket ties a lookup to the code it was issued for
type PostalLookupTicket struct {
	PostalCode string
}

// Observe records the field's current value
func (t *PostalLookupTracker) Observe(value string) {
	t.mu.Lock()
	t.current = utils.OnlyDigits(value)
	t.mu.Unlock()
}

// Current returns the digits of the field's current value
func (t *PostalLookupTracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Begin observes code and returns the ticket for a lookup issued for it
func (t *PostalLookupTracker) Begin(code string) PostalLookupTicket {
	t.Observe(code)
	return PostalLookupTicket{PostalCode: utils.OnlyDigits(code)}
}

// Accept reports whether a response for ticket still matches the field
func (t *PostalLookupTracker) Accept(ticket PostalLookupTicket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ticket.PostalCode == t.current
}
