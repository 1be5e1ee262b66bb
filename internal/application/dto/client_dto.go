package dto

import "time"

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Nombre       string `json:"nombre"`
	Apellido     string `json:"apellido"`
	NIT          int64  `json:"nit"`
	Email        string `json:"email,omitempty"`
	Telefono     string `json:"telefono,omitempty"`
	Direccion    string `json:"direccion,omitempty"`
	Ciudad       string `json:"ciudad,omitempty"`
	Departamento string `json:"departamento,omitempty"`
}

// UpdateClientRequest body para PUT /api/clients/:id. Activo nil conserva el valor actual.
type UpdateClientRequest struct {
	CreateClientRequest
	Activo *bool `json:"activo,omitempty"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID             string    `json:"id"`
	Nombre         string    `json:"nombre"`
	Apellido       string    `json:"apellido"`
	NombreCompleto string    `json:"nombre_completo"`
	NIT            int64     `json:"nit"`
	Email          string    `json:"email,omitempty"`
	Telefono       string    `json:"telefono,omitempty"`
	Direccion      string    `json:"direccion,omitempty"`
	Ciudad         string    `json:"ciudad,omitempty"`
	Departamento   string    `json:"departamento,omitempty"`
	Activo         bool      `json:"activo"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
