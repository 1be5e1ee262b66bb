package billing

import (
	"fmt"
	"unicode/utf8"
)

// SequenceDigits ancho del consecutivo en el número de factura.
const SequenceDigits = 8

// FormatInvoiceNumber devuelve "<serie>-<seq con 8 dígitos>".
func FormatInvoiceNumber(serie string, seq int64) string {
	return fmt.Sprintf("%s-%0*d", serie, SequenceDigits, seq)
}

// NextInvoiceNumber devuelve el número siguiente a last (0 si la serie no tiene facturas).
func NextInvoiceNumber(serie string, last int64) string {
	if last < 0 {
		last = 0
	}
	return FormatInvoiceNumber(serie, last+1)
}

// SequenceStart posición (base 1, en caracteres) donde empieza el consecutivo dentro de un
// número de la serie: "FAÑ-00000001" → 5. Cuenta runas, igual que SUBSTRING en PostgreSQL.
func SequenceStart(serie string) int {
	return utf8.RuneCountInString(serie) + 2
}
