// Package normalizer converts provider-specific strings and records into canonical offers.
package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Hours per billing period.
const (
	HoursPerMonth = 24 * 30
	HoursPerWeek  = 24 * 7
	HoursPerDay   = 24
	MinutesPerHr  = 60
)

// PricePrecision is the number of decimal places kept on hourly prices.
const PricePrecision = 4

var (
	memoryPattern   = regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)\s*(?:GB|GiB|G)\b`)
	diskPattern     = regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)\s*(TB|TiB|T|GB|GiB|G)\b`)
	cpuPattern      = regexp.MustCompile(`(?i)(\d+)\s*(?:cores?|vCPUs?)\b`)
	numberPattern   = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
	pcsPattern      = regexp.MustCompile(`(?i)^(\d+)\s*pcs\.?\s+(.+)$`)
	timesPattern    = regexp.MustCompile(`(?i)^(\d+)\s*[x×]\s*(.+)$`)
	modelPattern    = regexp.MustCompile(`^(\w+(?:\s+\d+\b)?)`)
	vendorPattern   = regexp.MustCompile(`(?i)\b(?:NVIDIA|GeForce)\b`)
	rtxLetterPrefix = regexp.MustCompile(`(?i)\bRTX\s*([A-Za-z])`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// ParseMemory returns the first "<N> GB|GiB|G" quantity in text, or 0.
// Thousands separators are accepted, so "1,152 GiB" is 1152.
func ParseMemory(text string) float64 {
	m := memoryPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	v, err := strconv.ParseFloat(normalizeNumber(m[1]), 64)
	if err != nil {
		return 0
	}

	return v
}

// ParseDiskSize is ParseMemory extended with terabyte units, returned in GB.
func ParseDiskSize(text string) float64 {
	m := diskPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	v, err := strconv.ParseFloat(normalizeNumber(m[1]), 64)
	if err != nil {
		return 0
	}

	if strings.HasPrefix(strings.ToUpper(m[2]), "T") {
		v *= 1024
	}

	return v
}

// ParseCPUCores returns the first "<N> core(s)|vCPU" count in text, or 0.
func ParseCPUCores(text string) int {
	m := cpuPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}

	return n
}

// ParsePrice returns the first number in text as an hourly rate rounded to
// four decimals. Month, week, day and minute periods are converted.
func ParsePrice(text string) float64 {
	raw := numberPattern.FindString(text)
	if raw == "" {
		return 0
	}

	price, err := decimal.NewFromString(normalizeNumber(raw))
	if err != nil {
		return 0
	}

	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "month"):
		price = price.Div(decimal.NewFromInt(HoursPerMonth))
	case strings.Contains(lower, "week"):
		price = price.Div(decimal.NewFromInt(HoursPerWeek))
	case strings.Contains(lower, "day"):
		price = price.Div(decimal.NewFromInt(HoursPerDay))
	case strings.Contains(lower, "minute"):
		price = price.Mul(decimal.NewFromInt(MinutesPerHr))
	}

	return price.Round(PricePrecision).InexactFloat64()
}

// normalizeNumber turns "1,200.50", "1,200" and "1,36" into parseable decimals.
// A lone comma followed by exactly three digits is a thousands separator.
func normalizeNumber(raw string) string {
	if strings.Contains(raw, ".") {
		return strings.ReplaceAll(raw, ",", "")
	}

	idx := strings.LastIndex(raw, ",")
	if idx < 0 {
		return raw
	}

	if len(raw)-idx-1 == 3 {
		return strings.ReplaceAll(raw, ",", "")
	}

	return strings.ReplaceAll(raw[:idx], ",", "") + "." + raw[idx+1:]
}

// ParseGPUCountAndModel splits descriptions like "8 pcs RTX A6000", "4x NVIDIA
// RTX 4090" or "NVIDIA H100" into a count and a vendor-free model name.
func ParseGPUCountAndModel(text string) (int, string) {
	text = strings.TrimSpace(strings.Replace(text, "GPU:", "", 1))
	if text == "" {
		return 0, ""
	}

	count := 1
	rest := text

	if m := pcsPattern.FindStringSubmatch(text); m != nil {
		count, rest = atoiOr(m[1], 1), m[2]
	} else if m := timesPattern.FindStringSubmatch(text); m != nil {
		count, rest = atoiOr(m[1], 1), m[2]
	}

	model := CleanModelName(rest)
	if model == "" {
		return 0, ""
	}

	if m := modelPattern.FindStringSubmatch(model); m != nil {
		model = m[1]
	}

	return count, model
}

// CleanModelName strips vendor tokens from a GPU model. "RTX" is dropped only
// in front of lettered workstation models, so "RTX A6000" becomes "A6000" but
// "RTX 4090" is kept.
func CleanModelName(model string) string {
	model = vendorPattern.ReplaceAllString(model, " ")
	model = rtxLetterPrefix.ReplaceAllString(model, "$1")
	model = spacePattern.ReplaceAllString(model, " ")

	return strings.TrimSpace(model)
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}

	return n
}
