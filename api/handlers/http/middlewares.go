package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/context"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/logger"
)

func setUserContext(c *fiber.Ctx) error {
	// Get trace ID from locals if available
	traceID := ""
	if tid := c.Locals("traceID"); tid != nil {
		if tidStr, ok := tid.(string); ok {
			traceID = tidStr
		}
	}

	// Create enhanced context with trace ID
	userCtx := context.NewAppContextWithTracing(c.UserContext(), traceID)

	// Initialize logger with context
	contextLogger := logger.GetGlobalLogger()
	coreLogger := contextLogger.FromContext(userCtx)
	userCtx = contextLogger.SetInContext(userCtx, coreLogger)

	c.SetUserContext(userCtx)
	return c.Next()
}

func setTransaction(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx := db.Begin()

		context.SetDB(c.UserContext(), tx, true)

		err := c.Next()

		if c.Response().StatusCode() >= 300 {
			return context.Rollback(c.UserContext())
		}

		if err := context.CommitOrRollback(c.UserContext(), true); err != nil {
			return err
		}

		return err
	}
}

func TraceMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set("X-Trace-ID", traceID)

		c.Locals("traceID", traceID)

		return c.Next()
	}
}
