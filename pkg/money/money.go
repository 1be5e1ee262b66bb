// Package money concentra la aritmética monetaria exacta (shopspring/decimal, escala 2).
// Ningún monto pasa por float64.
package money

import "github.com/shopspring/decimal"

// Scale número de decimales con que se almacenan y presentan los montos.
const Scale int32 = 2

// Round2 redondea a 2 decimales (mitad hacia afuera del cero).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Times multiplica un monto por una cantidad entera.
func Times(amount decimal.Decimal, qty int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(qty)))
}

// Percent aplica una tasa (ej. 0.13) sobre base y redondea a 2 decimales.
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(rate))
}

// Sum suma los montos recibidos; sin argumentos devuelve cero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// MustParse convierte un string ("12.50") a decimal y entra en pánico si es inválido;
// pensado para constantes y tests.
func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Format devuelve el monto con exactamente 2 decimales ("232.00").
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// FormatThousands devuelve el monto con separador de miles "." y decimal ",".
// Ej: 1234567.5 -> "1.234.567,50"; -50 -> "-50,00".
func FormatThousands(d decimal.Decimal) string {
	s := d.Abs().StringFixed(Scale)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	buf = append(buf, ',')
	buf = append(buf, frac...)
	return string(buf)
}
