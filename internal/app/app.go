package app

import (
	"os"

	"leavedesk/internal/shared/kvstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine) (*kvstore.RedisStore, error) {
	redisClient, err := kvstore.ConnectRedisWithRetry(
		os.Getenv("REDIS_ADDR"),
		os.Getenv("REDIS_PASSWORD"),
		5,
	)
	if err != nil {
		return nil, err
	}
	zap.L().Info("Redis connection established")

	store := kvstore.NewRedisStore(redisClient)

	registerModules(router, store)

	return store, nil
}
