package health

import (
	"github.com/gofiber/fiber/v2"
)

// FiberHandler creates Fiber routes for health checks
type FiberHandler struct {
	service *Service
}

func NewFiberHandler(service *Service) *FiberHandler {
	return &FiberHandler{service: service}
}

// RegisterRoutes registers health check routes
func (h *FiberHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.Health)
	router.Get("/healthz", h.Health)
	router.Get("/ready", h.Ready)
	router.Get("/readyz", h.Ready)
	router.Get("/live", h.Health)
	router.Get("/livez", h.Health)
}

// Health handles the liveness probe
func (h *FiberHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.service.Health(c.UserContext()))
}

// Ready handles the readiness probe
func (h *FiberHandler) Ready(c *fiber.Ctx) error {
	response := h.service.Ready(c.UserContext())

	status := fiber.StatusOK
	if !response.Ready {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(response)
}
