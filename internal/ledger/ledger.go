// Package ledger holds the money arithmetic behind order totals, balances,
// debts and refunds. Nothing here touches the database; callers load rows and
// pass the amounts in.
package ledger

import (
	"errors"
	"fmt"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrNonPositiveQty is returned when a return quantity is zero or negative
	ErrNonPositiveQty = errors.New("return quantity must be positive")
	// ErrExceedsEligible is returned when a return would exceed what was sold
	ErrExceedsEligible = errors.New("return quantity exceeds eligible quantity")
	// ErrNonPositiveAmount is returned when a payment rounds to zero or less
	ErrNonPositiveAmount = errors.New("payment amount must be positive")
	// ErrAmountOutOfRange is returned when an amount does not fit numeric(12,2)
	ErrAmountOutOfRange = errors.New("amount exceeds the storable range")
)

var (
	hundred = decimal.NewFromInt(100)

	// MaxAmount is the largest value a numeric(12,2) column holds
	MaxAmount = decimal.RequireFromString("9999999999.99")
)

// OrderTotal is the sum of discounted line prices
func OrderTotal(discountedPrices []decimal.Decimal) decimal.Decimal {
	return Sum(discountedPrices)
}

// OrderPaid is the sum of payment amounts
func OrderPaid(amounts []decimal.Decimal) decimal.Decimal {
	return Sum(amounts)
}

// Sum adds amounts. An empty slice sums to zero.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Balance is total minus paid. A negative balance is an overpayment.
func Balance(total, paid decimal.Decimal) decimal.Decimal {
	return total.Sub(paid)
}

// AmountOwed sums only the positive balances. Overpaid orders do not offset
// debt on other orders.
func AmountOwed(balances []decimal.Decimal) decimal.Decimal {
	owed := decimal.Zero
	for _, b := range balances {
		if b.IsPositive() {
			owed = owed.Add(b)
		}
	}
	return owed
}

// Refund is qty × unitPrice × (1 − discountPct/100), unrounded
func Refund(qty int, unitPrice, discountPct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discountPct.Div(hundred))
	return decimal.NewFromInt(int64(qty)).Mul(unitPrice).Mul(factor)
}

// EligibleQty is how many units of a line can still be returned
func EligibleQty(sold, returned int) int {
	if returned >= sold {
		return 0
	}
	return sold - returned
}

// CheckReturn validates a return request against what was sold and already returned
func CheckReturn(sold, returned, requested int) error {
	if requested <= 0 {
		return ErrNonPositiveQty
	}
	// compared against the remainder so huge requests cannot overflow the sum
	if requested > EligibleQty(sold, returned) {
		return fmt.Errorf("%w: sold %d, returned %d, requested %d",
			ErrExceedsEligible, sold, returned, requested)
	}
	return nil
}

// DerivePaymentStatus maps a total and a paid sum onto the payment axis.
// An order with nothing to pay counts as paid.
func DerivePaymentStatus(total, paid decimal.Decimal) domain.PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return domain.PaymentPaid
	case !paid.IsPositive():
		return domain.PaymentUnpaid
	default:
		return domain.PaymentPartiallyPaid
	}
}

// Round2 rounds half away from zero to two decimals
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PaymentAmount rounds a payment to cents and rejects what would be stored as
// zero or would not fit the amount column.
func PaymentAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := Round2(amount)
	if !rounded.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}
	if rounded.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrAmountOutOfRange
	}
	return rounded, nil
}

// Float rounds to two decimals and converts for JSON output
func Float(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
