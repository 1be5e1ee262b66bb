package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple para operaciones sin cuerpo.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HomeResponse información general de la API.
type HomeResponse struct {
	Aplicacion    string            `json:"aplicacion"`
	Documentacion string            `json:"documentacion"`
	Impuestos     map[string]string `json:"impuestos"`
	Endpoints     map[string]string `json:"endpoints"`
}
