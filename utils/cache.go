// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"telvia/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient holds registration wizard sessions.
	SessionCacheClient *redis.Client
	// AuthCacheClient is the dedicated client for session-token caching.
	AuthCacheClient *redis.Client
	// PendingCacheClient holds pending purchase records across gateway redirects.
	PendingCacheClient *redis.Client
)

func newClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (db %d): %v", db, err)
	}
	return client
}

// InitRedis initializes every Redis client the portal uses.
func InitRedis() {
	SessionCacheClient = newClient(config.AppConfig.RedisSessionDB)
	AuthCacheClient = newClient(config.AppConfig.RedisAuthDB)
	PendingCacheClient = newClient(config.AppConfig.RedisPendingDB)
}

// GetSessionCacheClient returns the registration session client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		SessionCacheClient = newClient(config.AppConfig.RedisSessionDB)
	}
	return SessionCacheClient
}

// GetAuthCacheClient returns the Redis client for session-token caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		AuthCacheClient = newClient(config.AppConfig.RedisAuthDB)
	}
	return AuthCacheClient
}

// GetPendingCacheClient returns the pending purchase client.
func GetPendingCacheClient() *redis.Client {
	if PendingCacheClient == nil {
		PendingCacheClient = newClient(config.AppConfig.RedisPendingDB)
	}
	return PendingCacheClient
}
