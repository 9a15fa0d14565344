package app

import (
	"os"
	"strings"

	"leavedesk/internal/auth"
	"leavedesk/internal/leave"
	"leavedesk/internal/middleware"
	"leavedesk/internal/shared/kvstore"
	"leavedesk/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func registerModules(router *gin.Engine, store *kvstore.RedisStore) {
	// --- Repositories ---
	userRepo := user.NewRepository(store)
	leaveRepo := leave.NewRepository(store)

	// --- Event publisher ---
	publisher := leave.NewNoopDecisionPublisher()
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(brokers, ",")...),
			Balancer: &kafka.LeastBytes{},
		}
		publisher = leave.NewKafkaDecisionPublisher(writer)
		zap.L().Info("Kafka decision publisher enabled", zap.String("brokers", brokers))
	}

	// --- Services ---
	authService := auth.NewService(userRepo)
	leaveService := leave.NewService(leaveRepo, userRepo, publisher)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, store.Client())

	// --- Middleware & routes ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, userRepo)
		leave.RegisterRoutes(api, leaveHandler, userRepo, store.Client())
	}
}
