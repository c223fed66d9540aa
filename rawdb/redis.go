package rawdb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tunnckoCore/ethsgw/schema"
)

const (
	RedisType = "redis"

	redisScanCount = 500
)

// RedisDB namespaces every bucket as "{bucket}:{key}" in a single redis db.
type RedisDB struct {
	client *redis.Client
}

func NewRedisDB(redisUrl string) (*RedisDB, error) {
	if redisUrl == "" {
		redisUrl = "redis://localhost:6379"
	}
	opts, err := redis.ParseURL(redisUrl)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	log.Info("run with redis success", "addr", opts.Addr)
	return &RedisDB{client: client}, nil
}

func (r *RedisDB) Type() string {
	return RedisType
}

func (r *RedisDB) Put(bucket, key string, value []byte) error {
	return r.client.Set(context.Background(), redisKey(bucket, key), value, 0).Err()
}

func (r *RedisDB) Get(bucket, key string) ([]byte, error) {
	data, err := r.client.Get(context.Background(), redisKey(bucket, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, schema.ErrNotExist
	}
	return data, err
}

func (r *RedisDB) GetAllKey(bucket string) (keys []string, err error) {
	ctx := context.Background()
	prefix := redisKey(bucket, "")
	keys = make([]string, 0)
	iter := r.client.Scan(ctx, 0, prefix+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), prefix))
	}
	err = iter.Err()
	return
}

func (r *RedisDB) Delete(bucket, key string) error {
	return r.client.Del(context.Background(), redisKey(bucket, key)).Err()
}

func (r *RedisDB) Exist(bucket, key string) bool {
	n, err := r.client.Exists(context.Background(), redisKey(bucket, key)).Result()
	return err == nil && n > 0
}

func (r *RedisDB) Close() error {
	return r.client.Close()
}

func redisKey(bucket, key string) string {
	return bucket + ":" + key
}
