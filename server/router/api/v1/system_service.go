package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	StoreConnected bool   `json:"store_connected"`
	AIConfigured   bool   `json:"ai_configured"`
}

// Health handles GET /healthz. Degraded means the process is up but a
// dependency is unreachable; operations against it will fail.
func (s *APIV1Service) Health(c echo.Context) error {
	storeConnected := s.Store.Ping(c.Request().Context()) == nil
	aiConfigured := s.Profile.IsAIConfigured()

	status := "healthy"
	if !storeConnected || !aiConfigured {
		status = "degraded"
	}
	return c.JSON(http.StatusOK, &HealthResponse{
		Status:         status,
		Version:        s.Profile.Version,
		StoreConnected: storeConnected,
		AIConfigured:   aiConfigured,
	})
}
