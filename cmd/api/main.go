package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/serenespring/massage-booking-api/internal/config"
	dbpkg "github.com/serenespring/massage-booking-api/internal/db"
	infraRepo "github.com/serenespring/massage-booking-api/internal/infra/repository"
	"github.com/serenespring/massage-booking-api/internal/logging"
	"github.com/serenespring/massage-booking-api/internal/routes"
	ucBooking "github.com/serenespring/massage-booking-api/internal/usecase/booking"
)

func main() {

	logger := logging.Init()
	defer logger.Sync()

	cfg := config.Load()

	db := dbpkg.NewDB(cfg)
	dbpkg.Seed(db, cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiting degrades to fail-open", zap.Error(err))
	}
	cancel()

	// background sweep of stale pending bookings
	sweeper := ucBooking.NewExpirePending(infraRepo.NewSchedulingGormRepository(db))
	go sweeper.Run(context.Background(), time.Minute)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg)

	logger.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
