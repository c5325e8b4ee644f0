package db

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/jacl-coder/PixelStorm-Combat/config"
)

var (
	// RedisClient 技能目录缓存使用的Redis客户端
	RedisClient *redis.Client
)

// redisOptions 由配置生成客户端参数，未配置的项交给go-redis的默认值
func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// InitRedis 连接Redis，Ping失败时不保留客户端
func InitRedis(ctx context.Context, cfg config.RedisConfig) error {
	client := redis.NewClient(redisOptions(cfg))

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("Redis连接失败(%s): %w", cfg.GetRedisAddr(), err)
	}

	RedisClient = client
	log.Printf("成功连接到Redis服务器 %s (db=%d, pool=%d)", cfg.GetRedisAddr(), cfg.DB, client.Options().PoolSize)
	return nil
}

// CloseRedis 关闭Redis连接
func CloseRedis() {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Close(); err != nil {
		log.Printf("关闭Redis连接时发生错误: %v", err)
	}
	RedisClient = nil
	log.Println("Redis连接已关闭")
}
