package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownCurrency is returned when no rate is configured for a currency.
var ErrUnknownCurrency = errors.New("unknown currency")

// Currency is an ISO 4217 code.
type Currency string

// Currencies quoted by the supported providers.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// DefaultEURToUSD is the fixed EUR to USD rate used when none is configured.
const DefaultEURToUSD = 1.10

// Rates maps a currency to its USD value. USD is implicit.
type Rates map[Currency]float64

// DefaultRates returns the built-in conversion table.
func DefaultRates() Rates {
	return Rates{EUR: DefaultEURToUSD}
}

// RatesFromMap builds a table from configuration, layered over DefaultRates.
func RatesFromMap(m map[string]float64) Rates {
	rates := DefaultRates()
	for code, rate := range m {
		rates[Currency(strings.ToUpper(strings.TrimSpace(code)))] = rate
	}

	return rates
}

// ToUSD converts amount to USD, rounded to four decimals.
func (r Rates) ToUSD(amount float64, from Currency) (float64, error) {
	value := decimal.NewFromFloat(amount)

	if from != USD && from != "" {
		rate, ok := r[from]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
		}

		value = value.Mul(decimal.NewFromFloat(rate))
	}

	return value.Round(PricePrecision).InexactFloat64(), nil
}

// DetectCurrency guesses the currency of a price label, defaulting to fallback.
func DetectCurrency(text string, fallback Currency) Currency {
	switch {
	case strings.Contains(text, "€"), strings.Contains(strings.ToUpper(text), "EUR"):
		return EUR
	case strings.Contains(text, "$"), strings.Contains(strings.ToUpper(text), "USD"):
		return USD
	default:
		return fallback
	}
}
