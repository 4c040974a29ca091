// Package masks implements the input masks used by the dealer back office.
//
// Apply functions are idempotent-safe: input that already carries the mask
// punctuation is returned unchanged, anything else is reduced to digits and
// re-masked. Strip functions produce the wire representation (digits only,
// or a plain decimal amount for currency). Non-digit characters are always
// discarded, never rejected.
package masks

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Digits removes everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// alnumUpper keeps letters and digits, uppercasing letters.
func alnumUpper(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mask lays digits out over a positional template. seps maps a digit index
// to the separator written before it.
func mask(d string, max int, seps map[int]string) string {
	if len(d) > max {
		d = d[:max]
	}
	var b strings.Builder
	for i := 0; i < len(d); i++ {
		if sep, ok := seps[i]; ok {
			b.WriteString(sep)
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

// CPF formats digits as ###.###.###-##, truncated to 11 digits.
func CPF(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, ".") && strings.Contains(s, "-") {
		return s
	}
	return mask(Digits(s), 11, map[int]string{3: ".", 6: ".", 9: "-"})
}

// StripCPF reduces a masked CPF to its digits.
func StripCPF(s string) string { return Digits(s) }

// CEP formats digits as #####-###, truncated to 8 digits.
func CEP(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "-") {
		return s
	}
	return mask(Digits(s), 8, map[int]string{5: "-"})
}

// StripCEP reduces a masked CEP to its digits.
func StripCEP(s string) string { return Digits(s) }

// Celular formats digits as (##) ####-#### or (##) #####-#### for 11 digits.
func Celular(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "(") && strings.Contains(s, ")") {
		return s
	}
	d := Digits(s)
	if len(d) > 11 {
		d = d[:11]
	}
	if len(d) <= 10 {
		return mask(d, 10, map[int]string{0: "(", 2: ") ", 6: "-"})
	}
	return mask(d, 11, map[int]string{0: "(", 2: ") ", 7: "-"})
}

// StripCelular reduces a masked phone number to its digits.
func StripCelular(s string) string { return Digits(s) }

// RG formats digits as ##.###.###-#, truncated to 9 digits.
func RG(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, ".") && strings.Contains(s, "-") {
		return s
	}
	return mask(Digits(s), 9, map[int]string{2: ".", 5: ".", 8: "-"})
}

// StripRG reduces a masked RG to its digits.
func StripRG(s string) string { return Digits(s) }

// Placa formats the input as an ABC-1234 license plate (7 characters).
func Placa(s string) string {
	d := alnumUpper(s)
	if len(d) > 7 {
		d = d[:7]
	}
	if len(d) > 3 {
		return d[:3] + "-" + d[3:]
	}
	return d
}

// AnoModelo formats digits as AAAA/AAAA (fabrication/model year).
func AnoModelo(s string) string {
	d := Digits(s)
	if len(d) > 8 {
		d = d[:8]
	}
	if len(d) > 4 {
		return d[:4] + "/" + d[4:]
	}
	return d
}

// Chassi keeps up to 17 alphanumeric characters, uppercased.
func Chassi(s string) string {
	d := alnumUpper(s)
	if len(d) > 17 {
		d = d[:17]
	}
	return d
}

// Renavan keeps up to 11 digits.
func Renavan(s string) string {
	d := Digits(s)
	if len(d) > 11 {
		d = d[:11]
	}
	return d
}

// Moeda renders a digit string as pt-BR currency, the digits read as integer
// cents: "123456" becomes "1.234,56". Already formatted input (carrying a
// decimal comma) is returned unchanged. Empty input stays empty.
func Moeda(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, ",") {
		return s
	}
	d := Digits(s)
	if d == "" {
		return ""
	}
	cents, err := decimal.NewFromString(d)
	if err != nil {
		return ""
	}
	return FormatMoeda(cents.Shift(-2))
}

// FormatMoeda renders a decimal amount with pt-BR separators and two
// decimal places.
func FormatMoeda(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart := fixed[:len(fixed)-3]
	decPart := fixed[len(fixed)-2:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte(',')
	b.WriteString(decPart)
	return b.String()
}

// StripMoeda parses a masked pt-BR amount back to a plain float. Thousands
// dots are dropped and the decimal comma restored before parsing. Returns 0
// for empty or unparseable input.
func StripMoeda(s string) float64 {
	cleaned := strings.ReplaceAll(s, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	var b strings.Builder
	for _, r := range cleaned {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	amount, err := decimal.NewFromString(b.String())
	if err != nil {
		return 0
	}
	return amount.InexactFloat64()
}
