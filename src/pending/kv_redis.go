package pending

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/logger"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Backend shared between processes. Keys are prefixed to allow sharing the database.
type RedisKV struct {
	log    *logrus.Entry
	client *redis.Client
	prefix string
}

func NewRedisKV(ctx context.Context, config *config.Config) (self *RedisKV, err error) {
	self = new(RedisKV)
	self.log = logger.NewSublogger("pending-redis")
	self.prefix = config.Store.KeyPrefix

	redisConfig := config.Redis
	opts := redis.Options{
		ClientName:      "warp.cc/arns",
		Addr:            fmt.Sprintf("%s:%d", redisConfig.Host, redisConfig.Port),
		Password:        redisConfig.Password,
		Username:        redisConfig.User,
		DB:              redisConfig.DB,
		MinIdleConns:    redisConfig.MinIdleConns,
		MaxIdleConns:    redisConfig.MaxIdleConns,
		ConnMaxIdleTime: redisConfig.ConnMaxIdleTime,
		PoolSize:        redisConfig.MaxOpenConns,
		ConnMaxLifetime: redisConfig.ConnMaxLifetime,
	}

	if redisConfig.ClientCert != "" && redisConfig.ClientKey != "" && redisConfig.CaCert != "" {
		var cert tls.Certificate
		cert, err = tls.X509KeyPair([]byte(redisConfig.ClientCert), []byte(redisConfig.ClientKey))
		if err != nil {
			self.log.WithError(err).Error("Failed to load client cert")
			return
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM([]byte(redisConfig.CaCert)) {
			err = errors.New("failed to append CA cert to pool")
			return
		}

		opts.TLSConfig = &tls.Config{
			InsecureSkipVerify: false,
			RootCAs:            caCertPool,
			ClientCAs:          caCertPool,
			Certificates:       []tls.Certificate{cert},
		}
	}

	return self.WithClient(ctx, redis.NewClient(&opts))
}

// Uses an existing connection
func (self *RedisKV) WithClient(ctx context.Context, client *redis.Client) (*RedisKV, error) {
	if self.log == nil {
		self.log = logger.NewSublogger("pending-redis")
	}
	self.client = client

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := self.client.Ping(ctx).Err()
	if err != nil {
		self.log.WithError(err).Error("Failed to ping Redis")
		_ = self.client.Close()
		return nil, err
	}
	return self, nil
}

func (self *RedisKV) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	value, err = self.client.Get(ctx, self.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return
	}
	return value, true, nil
}

func (self *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	// Expiration is handled by the store, entries have their own timestamps
	return self.client.Set(ctx, self.prefix+key, value, 0).Err()
}

func (self *RedisKV) Delete(ctx context.Context, key string) error {
	return self.client.Del(ctx, self.prefix+key).Err()
}

func (self *RedisKV) Keys(ctx context.Context) (out []string, err error) {
	iter := self.client.Scan(ctx, 0, self.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, strings.TrimPrefix(iter.Val(), self.prefix))
	}
	err = iter.Err()
	return
}

func (self *RedisKV) Close() error {
	return self.client.Close()
}
