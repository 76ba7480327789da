package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/logging"
	"github.com/clinica-bage/app-rx/internal/redisclient"
)

var (
	// Redis client (sessions, postal cache)
	Redis *redisclient.Client
	// ObjectStorage holds profile images; nil when MINIO_ENDPOINT is unset
	ObjectStorage *minio.Client
)

// InitRedis initializes the Redis connection
func InitRedis() {
	opts, err := redisOptions(AppConfig.RedisURI, AppConfig.RedisPassword, AppConfig.RedisDB)
	if err != nil {
		logging.Logger.Fatal("invalid Redis URI", zap.String("uri", maskRedisURI(AppConfig.RedisURI)), zap.Error(err))
	}

	// Wrap with traced client
	Redis = redisclient.NewClient(redis.NewClient(opts))

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", maskRedisURI(AppConfig.RedisURI)),
			zap.Error(err))
		return
	}

	logging.Logger.Info("connected to Redis",
		zap.String("uri", maskRedisURI(AppConfig.RedisURI)))
}

// InitObjectStorage connects to the MinIO bucket that stores profile
// images. Object storage is optional: without an endpoint, image
// availability is probed over HTTP only.
func InitObjectStorage() {
	if AppConfig.MinIOEndpoint == "" {
		logging.Logger.Info("object storage is disabled")
		return
	}

	client, err := minio.New(AppConfig.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(AppConfig.MinIOAccessKey, AppConfig.MinIOSecretKey, ""),
		Secure: AppConfig.MinIOUseSSL,
	})
	if err != nil {
		logging.Logger.Error("failed to initialize object storage client",
			zap.String("endpoint", AppConfig.MinIOEndpoint),
			zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, AppConfig.MinIOBucket)
	if err != nil || !exists {
		logging.Logger.Warn("profile image bucket not reachable, object storage probe disabled",
			zap.String("endpoint", AppConfig.MinIOEndpoint),
			zap.String("bucket", AppConfig.MinIOBucket),
			zap.Bool("exists", exists),
			zap.Error(err))
		return
	}

	ObjectStorage = client
	logging.Logger.Info("connected to object storage",
		zap.String("endpoint", AppConfig.MinIOEndpoint),
		zap.String("bucket", AppConfig.MinIOBucket))
}

// redisOptions accepts both redis:// URLs and bare host:port addresses
func redisOptions(uri, password string, db int) (*redis.Options, error) {
	if strings.HasPrefix(uri, "redis://") || strings.HasPrefix(uri, "rediss://") {
		opts, err := redis.ParseURL(uri)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if password != "" {
			opts.Password = password
		}
		return opts, nil
	}
	if uri == "" {
		return nil, fmt.Errorf("empty redis address")
	}
	return &redis.Options{
		Addr:         uri,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	}, nil
}

// maskRedisURI hides credentials embedded in a redis URL
func maskRedisURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil || u.Host == "" {
		return uri
	}
	u.User = url.UserPassword("****", "****")
	return u.String()
}
