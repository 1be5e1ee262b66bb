package entity

import "time"

// Client representa un cliente facturable.
// Activo=false es la baja lógica; la eliminación física es una operación aparte.
type Client struct {
	ID           string
	Nombre       string
	Apellido     string
	NIT          int64   // 10 dígitos, único
	Email        *string // opcional, único si está presente
	Telefono     string
	Direccion    string
	Ciudad       string
	Departamento string
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName devuelve "Nombre Apellido".
func (c *Client) FullName() string {
	return c.Nombre + " " + c.Apellido
}

// EmailValue devuelve el email o "" si no tiene.
func (c *Client) EmailValue() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}
