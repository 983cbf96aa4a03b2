package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/focusapp/focus-server/internal/config"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/utils"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Inference    string            `json:"inference"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(cfg *config.Config, store storage.Store) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Check database connectivity
	if err := store.Ping(ctx); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		log.Printf("Health check failed - database ping: %v", err)
	} else {
		result.Database = "ok"
		result.Details["database_name"] = cfg.MongoDatabase
	}

	// Check inference endpoint reachability. The endpoint being down only
	// degrades report generation, so it does not flip overall status.
	if err := utils.PingInference(cfg.InferenceURL); err != nil {
		result.Inference = "unreachable"
		result.Details["inference_error"] = err.Error()
		log.Printf("Health check - inference ping: %v", err)
	} else {
		result.Inference = "ok"
	}

	return result
}
