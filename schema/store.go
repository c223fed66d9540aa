package schema

const (
	KVBolt   = "bolt"
	KVRedis  = "redis"
	KVMysql  = "mysql"
	KVSqlite = "sqlite"
	KVS3     = "s3"
	KVMongo  = "mongo"
	KVOss    = "oss"
)

var (
	// bucket
	BannedBucket   = "banned"           // key: transaction_hash, val: ContentMeta
	ResolvedBucket = "resolved_by_name" // key: raw identity input, val: Resolution

	AllBuckets = []string{BannedBucket, ResolvedBucket}
)
