// Package nit valida el Número de Identificación Tributaria de los clientes.
// El NIT se maneja como entero de exactamente 10 dígitos.
package nit

import (
	"fmt"
	"strconv"
	"unicode"
)

// Límites inclusivos de un NIT de 10 dígitos.
const (
	Min int64 = 1_000_000_000
	Max int64 = 9_999_999_999
)

// Validate verifica que el NIT tenga exactamente 10 dígitos.
func Validate(n int64) error {
	if n < Min || n > Max {
		return fmt.Errorf("nit: el NIT debe tener 10 dígitos, se recibió %d", n)
	}
	return nil
}

// Parse acepta el NIT con o sin separadores ("123.456.789-0", "1234567890")
// y devuelve el valor numérico validado.
func Parse(s string) (int64, error) {
	digits := extractDigits(s)
	if len(digits) != 10 {
		return 0, fmt.Errorf("nit: el NIT debe tener 10 dígitos, se encontraron %d", len(digits))
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("nit: %w", err)
	}
	return n, Validate(n)
}

// Format devuelve el NIT como string de 10 dígitos.
func Format(n int64) string {
	return strconv.FormatInt(n, 10)
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return out
}
