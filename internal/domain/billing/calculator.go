package billing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SanitizeDecimal coerces untrusted numeric input into a decimal value.
// Accepts strings, integers, floats and json.Number; returns zero for
// anything missing, non-numeric, NaN or infinite. Never panics.
func SanitizeDecimal(input any) decimal.Decimal {
	switch v := input.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case string:
		return decimalFromString(v)
	case json.Number:
		return decimalFromString(v.String())
	case float64:
		return decimalFromFloat(v)
	case float32:
		return decimalFromFloat(float64(v))
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		return decimal.Zero
	}
}

// SanitizeQuantity coerces untrusted input into an integer quantity by
// flooring the sanitized decimal. Returns 0 on any failure.
func SanitizeQuantity(input any) int64 {
	return SanitizeDecimal(input).Floor().IntPart()
}

// LineTotal computes quantity * unit price, sanitizing both inputs first.
func LineTotal(quantity, unitPrice any) decimal.Decimal {
	qty := decimal.NewFromInt(SanitizeQuantity(quantity))
	return qty.Mul(SanitizeDecimal(unitPrice))
}

// Totals holds the server-computed monetary summary of an invoice.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals derives subtotal, tax amount and total from the item line
// totals and the tax rate (a percentage). All values are rounded to two
// decimal places; Total is computed from the rounded parts so that
// Total == Subtotal + TaxAmount always holds exactly.
func ComputeTotals(lineTotals []decimal.Decimal, taxRate any) Totals {
	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	subtotal = subtotal.Round(2)

	rate := SanitizeDecimal(taxRate)
	taxAmount := subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)

	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}

func decimalFromString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	// Reject NaN/Inf spellings that strconv accepts but decimal cannot hold.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NewFromFloat(f)
	}
	return d
}

func decimalFromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
