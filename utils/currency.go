package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatCurrencyIDR menulis nominal dengan pemisah ribuan titik dan desimal koma.
// Contoh: 15000.5 -> "Rp 15.000,50", -2500 -> "-Rp 2.500". Dibulatkan ke sen.
func FormatCurrencyIDR(amount float64) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	if amount < 0 && cents > 0 {
		b.WriteByte('-')
	}
	b.WriteString("Rp ")
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac := cents % 100; frac != 0 {
		b.WriteByte(',')
		if frac < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatInt(frac, 10))
	}
	return b.String()
}
