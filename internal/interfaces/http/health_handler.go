package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// Pinger comprueba la conexión a la base de datos (*pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func Health(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if db == nil || db.Ping(ctx) != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "DOWN", Database: "DOWN"})
		}
		return c.JSON(dto.HealthResponse{Status: "UP", Database: "UP"})
	}
}

// Home godoc
// @Summary      Información de la API
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HomeResponse
// @Router       / [get]
func Home(appName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.HomeResponse{
			Aplicacion:    appName,
			Documentacion: "/docs",
			Impuestos:     map[string]string{"IVA": "13%", "IT": "3%"},
			Endpoints: map[string]string{
				"auth":     "/api/auth",
				"clients":  "/api/clients",
				"invoices": "/api/invoices",
				"health":   "/health",
			},
		})
	}
}
