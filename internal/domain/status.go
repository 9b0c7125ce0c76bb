package domain

import (
	"strings"
)

// FulfillmentStatus tracks whether an order has been handed over
type FulfillmentStatus string

const (
	FulfillmentOrdered  FulfillmentStatus = "ordered"
	FulfillmentPickedUp FulfillmentStatus = "picked_up"
)

// PaymentStatus tracks how much of an order total has been paid
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

var fulfillmentLabels = map[FulfillmentStatus]string{
	FulfillmentOrdered:  "Comandată",
	FulfillmentPickedUp: "Ridicată",
}

var paymentLabels = map[PaymentStatus]string{
	PaymentUnpaid:        "neplătită",
	PaymentPartiallyPaid: "plătită parțial",
	PaymentPaid:          "plătită",
}

const statusSeparator = " și "

// DefaultOrderStatusLabel is the label assumed when a new order carries none
const DefaultOrderStatusLabel = "Comandată și neplătită"

// IsValid reports whether f is a known fulfillment state
func (f FulfillmentStatus) IsValid() bool {
	_, ok := fulfillmentLabels[f]
	return ok
}

// IsValid reports whether p is a known payment state
func (p PaymentStatus) IsValid() bool {
	_, ok := paymentLabels[p]
	return ok
}

// IsOutstanding reports whether an order in this state may still owe money
func (p PaymentStatus) IsOutstanding() bool {
	return p == PaymentUnpaid || p == PaymentPartiallyPaid
}

// StatusLabel renders the combined label shown by the desktop client,
// e.g. "Ridicată și plătită parțial".
func StatusLabel(f FulfillmentStatus, p PaymentStatus) string {
	fl, ok := fulfillmentLabels[f]
	if !ok {
		fl = fulfillmentLabels[FulfillmentOrdered]
	}
	pl, ok := paymentLabels[p]
	if !ok {
		pl = paymentLabels[PaymentUnpaid]
	}
	return fl + statusSeparator + pl
}

// ParseStatusLabel splits a combined label into its two axes. A label with only
// the fulfillment part is accepted and reports hasPayment=false. Matching ignores
// case and Romanian diacritics.
func ParseStatusLabel(label string) (f FulfillmentStatus, p PaymentStatus, hasPayment bool, ok bool) {
	norm := foldRomanian(label)
	if norm == "" {
		return "", "", false, false
	}

	head, tail, split := strings.Cut(norm, " si ")
	head = strings.TrimSpace(head)

	f, ok = matchFulfillment(head)
	if !ok {
		return "", "", false, false
	}
	if !split {
		return f, "", false, true
	}

	p, ok = matchPayment(strings.TrimSpace(tail))
	if !ok {
		return "", "", false, false
	}
	return f, p, true, true
}

func matchFulfillment(s string) (FulfillmentStatus, bool) {
	for k, v := range fulfillmentLabels {
		if foldRomanian(v) == s {
			return k, true
		}
	}
	return "", false
}

func matchPayment(s string) (PaymentStatus, bool) {
	for k, v := range paymentLabels {
		if foldRomanian(v) == s {
			return k, true
		}
	}
	return "", false
}

var diacritics = strings.NewReplacer(
	"ă", "a", "â", "a", "î", "i", "ș", "s", "ş", "s", "ț", "t", "ţ", "t",
	"Ă", "a", "Â", "a", "Î", "i", "Ș", "s", "Ş", "s", "Ț", "t", "Ţ", "t",
)

func foldRomanian(s string) string {
	return strings.ToLower(strings.TrimSpace(diacritics.Replace(s)))
}
