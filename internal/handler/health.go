package handler

import (
	"context"
	"net/http"
	"time"

	"stockroom/internal/infra"
	"stockroom/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer, cb *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		var dlq int64
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else {
			dlq, _ = worker.DLQLength(ctx, rdb, worker.QueueEmail)
		}

		mailerStatus := "disabled"
		if mailer.Enabled() {
			mailerStatus = cb.State().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":         status == http.StatusOK,
			"message":    "Inventory Management System is running!",
			"db":         dbStatus,
			"redis":      redisStatus,
			"mailer":     mailerStatus,
			"dlq_length": dlq,
		})
	}
}
