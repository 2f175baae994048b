package domain

import "github.com/shopspring/decimal"

// Money rounds an amount to the two-decimal currency unit.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MoneyFromString parses a currency amount such as "12.50".
func MoneyFromString(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, err
	}
	return Money(d), nil
}

// Percent returns part as a percentage of whole, 0 when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole).Round(2)
}
