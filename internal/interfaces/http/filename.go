package http

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFilename quita tildes y reemplaza lo que no sea ASCII imprimible para Content-Disposition.
// "factura-SUCRE Ñ-00000001.pdf" → "factura-SUCRE_N-00000001.pdf".
func asciiFilename(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '"' || r == '\\' || r == '/' || r == ' ':
			return '_'
		case r < 0x20 || r > 0x7e:
			return '_'
		}
		return r
	}, plain)
}
