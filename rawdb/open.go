package rawdb

import (
	"context"
	"fmt"

	"github.com/tunnckoCore/ethsgw/schema"
)

// Open builds the backend selected by cfg.KV.
func Open(cfg schema.Config) (KeyValueDB, error) {
	switch cfg.KV {
	case schema.KVBolt, "":
		return NewBoltDB(cfg.BoltDir)
	case schema.KVRedis:
		return NewRedisDB(cfg.Redis.Url)
	case schema.KVMysql:
		return NewMysqlDB(cfg.Sql.Dsn)
	case schema.KVSqlite:
		return NewSqliteDB(cfg.Sql.SqliteDir)
	case schema.KVS3:
		return NewS3DB(cfg.S3KV.AccKey, cfg.S3KV.SecretKey, cfg.S3KV.Region, cfg.S3KV.Prefix, cfg.S3KV.Endpoint)
	case schema.KVMongo:
		ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
		defer cancel()
		return NewMongoDB(ctx, cfg.Mongo.Uri, cfg.Mongo.Database)
	case schema.KVOss:
		return NewAliyunDB(cfg.OssKV.Endpoint, cfg.OssKV.AccKey, cfg.OssKV.SecretKey, cfg.OssKV.Prefix)
	default:
		return nil, fmt.Errorf("%w: %s", schema.ErrUnknownKV, cfg.KV)
	}
}
