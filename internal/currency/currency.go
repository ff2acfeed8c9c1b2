// Package currency renders prices the way Argentine shoppers read them.
package currency

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var arsLocale = language.MustParse("es-AR")

// FormatARS renders amount as pesos: "$ 1.000" for whole amounts and
// "$ 1.000,50" otherwise. Negative amounts get a leading minus sign.
func FormatARS(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$ 0"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	// Round to cents first so 999.999 renders as a whole 1.000.
	cents := math.Round(amount * 100)
	amount = cents / 100

	opts := []number.Option{number.MinFractionDigits(2), number.MaxFractionDigits(2)}
	if math.Mod(cents, 100) == 0 {
		opts = []number.Option{number.MaxFractionDigits(0)}
	}

	// message.Printer keeps per-call state, so each call gets its own.
	p := message.NewPrinter(arsLocale)
	return sign + "$ " + p.Sprint(number.Decimal(amount, opts...))
}

// DiscountPercent returns the whole-number discount of price against original,
// or 0 when there is no discount.
func DiscountPercent(price, original float64) int {
	if price <= 0 || original <= price {
		return 0
	}
	return int(math.Round((original - price) / original * 100))
}
