package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health pings Postgres and Redis with a short timeout. Returns 503 as soon
// as either dependency is unreachable so the orchestrator stops routing
// traffic here. Credentials and connection details are never echoed back.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "up"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "down"
		}

		redisStatus := "up"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "down"
		}

		code := http.StatusOK
		if postgres != "up" || redisStatus != "up" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"service":  "depotpos",
			"healthy":  code == http.StatusOK,
			"postgres": postgres,
			"redis":    redisStatus,
		})
	}
}
