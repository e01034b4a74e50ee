package domain

import "github.com/shopspring/decimal"

// moneyPlaces is the number of decimal places amounts are rounded to
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// ResolvePrice picks the service price for the staff member's level.
// A tier price applies only when it is set for that exact level, otherwise the base price is used.
// Negative tier prices count as unset, a negative base price resolves to zero.
func ResolvePrice(level StaffLevel, service *Service) decimal.Decimal {
	var tier decimal.NullDecimal
	switch level {
	case LevelMaster:
		tier = service.MasterPrice
	case LevelSenior:
		tier = service.SeniorPrice
	case LevelJunior:
		tier = service.JuniorPrice
	}

	if tier.Valid && !tier.Decimal.IsNegative() {
		return tier.Decimal
	}
	if service.BasePrice.IsNegative() {
		return decimal.Zero
	}
	return service.BasePrice
}

// DepositAmount returns total * percentage / 100, rounded to cents
func DepositAmount(total, percentage decimal.Decimal) decimal.Decimal {
	return percentOf(total, percentage)
}

// Commission returns total * rate / 100, rounded to cents
func Commission(total, rate decimal.Decimal) decimal.Decimal {
	return percentOf(total, rate)
}

func percentOf(total, percentage decimal.Decimal) decimal.Decimal {
	return total.Mul(percentage).Div(hundred).Round(moneyPlaces)
}
