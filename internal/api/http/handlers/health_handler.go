package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/persistence"
)

const dependencyCheckTimeout = 2 * time.Second

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness by pinging the user store and the profile cache.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), dependencyCheckTimeout)
	defer cancel()

	deps := fiber.Map{
		"postgres": pingStatus(h.postgres.Ping(ctx)),
		"redis":    pingStatus(h.redis.Ping(ctx)),
	}

	status := fiber.StatusOK
	state := "ready"
	for _, v := range deps {
		if v != "ok" {
			status = fiber.StatusServiceUnavailable
			state = "not ready"
			break
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"status":       state,
		"service":      h.serviceName,
		"dependencies": deps,
	})
}

func pingStatus(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
