package rawdb

import (
	"github.com/tunnckoCore/ethsgw/common"
)

var log = common.NewLog("rawdb")

// KeyValueDB is the durable store behind the banned and resolved caches.
// Get returns schema.ErrNotExist for absent keys.
type KeyValueDB interface {
	Put(bucket, key string, value []byte) (err error)

	Get(bucket, key string) (data []byte, err error)

	GetAllKey(bucket string) (keys []string, err error)

	Delete(bucket, key string) (err error)

	Close() (err error)

	Type() string

	Exist(bucket, key string) bool
}
