package rawdb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunnckoCore/ethsgw/schema"
)

// exerciseKV runs the same put/get/list/delete cycle on any backend.
func exerciseKV(t *testing.T, db KeyValueDB) {
	bktName := schema.BannedBucket
	keyNum := 50
	keys := make([]string, keyNum)
	values := make([][]byte, keyNum)
	for i := 0; i < keyNum; i++ {
		keys[i] = fmt.Sprintf("0xkey%d", i)
		values[i] = []byte(fmt.Sprintf(`{"id":"0xkey%d"}`, i))
	}

	for i := 0; i < keyNum; i++ {
		require.NoError(t, db.Put(bktName, keys[i], values[i]))
	}
	for i := 0; i < keyNum; i++ {
		val, err := db.Get(bktName, keys[i])
		assert.NoError(t, err)
		assert.Equal(t, values[i], val)
		assert.True(t, db.Exist(bktName, keys[i]))
	}

	// overwriting a key is idempotent
	require.NoError(t, db.Put(bktName, keys[0], values[0]))

	allKeys, err := db.GetAllKey(bktName)
	assert.NoError(t, err)
	sort.Strings(allKeys)
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	assert.Equal(t, sorted, allKeys)

	other, err := db.GetAllKey(schema.ResolvedBucket)
	assert.NoError(t, err)
	assert.Empty(t, other)

	for i := 0; i < keyNum; i++ {
		assert.NoError(t, db.Delete(bktName, keys[i]))
	}
	for i := 0; i < keyNum; i++ {
		_, err = db.Get(bktName, keys[i])
		assert.Equal(t, schema.ErrNotExist, err)
		assert.False(t, db.Exist(bktName, keys[i]))
	}
}

func TestBoltDB(t *testing.T) {
	boltDb, err := NewBoltDB(t.TempDir())
	require.NoError(t, err)
	defer boltDb.Close()
	assert.Equal(t, BoltType, boltDb.Type())
	exerciseKV(t, boltDb)
}

func TestBoltDB_EmptyDir(t *testing.T) {
	_, err := NewBoltDB("")
	assert.Error(t, err)
}

func TestRedisDB(t *testing.T) {
	mr := miniredis.RunT(t)
	redisDb, err := NewRedisDB("redis://" + mr.Addr())
	require.NoError(t, err)
	defer redisDb.Close()
	assert.Equal(t, RedisType, redisDb.Type())
	exerciseKV(t, redisDb)
}

func TestSqliteDB(t *testing.T) {
	sqlDb, err := NewSqliteDB(t.TempDir())
	require.NoError(t, err)
	defer sqlDb.Close()
	assert.Equal(t, SqlType, sqlDb.Type())
	exerciseKV(t, sqlDb)
}

func TestMongoDB(t *testing.T) {
	uri := os.Getenv("ETHSGW_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ETHSGW_TEST_MONGO_URI not set")
	}
	mongoDb, err := NewMongoDB(context.Background(), uri, "ethsgw_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	defer func() {
		_ = mongoDb.database.Drop(context.Background())
		_ = mongoDb.Close()
	}()
	assert.Equal(t, MongoDBType, mongoDb.Type())
	exerciseKV(t, mongoDb)
}

func TestAliyunDB(t *testing.T) {
	endpoint := os.Getenv("ETHSGW_TEST_OSS_ENDPOINT")
	if endpoint == "" {
		t.Skip("ETHSGW_TEST_OSS_ENDPOINT not set")
	}
	ossDb, err := NewAliyunDB(endpoint, os.Getenv("ETHSGW_TEST_OSS_ACC_KEY"), os.Getenv("ETHSGW_TEST_OSS_SECRET_KEY"), "ethsgw-test")
	require.NoError(t, err)
	defer ossDb.Close()
	assert.Equal(t, AliyunType, ossDb.Type())
	exerciseKV(t, ossDb)
}

func TestHandleOSSErr(t *testing.T) {
	assert.Equal(t, schema.ErrNotExist, handleOSSErr(oss.ServiceError{Code: ossErrorNoSuchKey}))
	other := oss.ServiceError{Code: "AccessDenied"}
	assert.Equal(t, error(other), handleOSSErr(other))
}

func TestOpen(t *testing.T) {
	db, err := Open(schema.Config{KV: schema.KVBolt, BoltDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, BoltType, db.Type())
	assert.NoError(t, db.Close())

	_, err = Open(schema.Config{KV: "leveldb"})
	assert.ErrorIs(t, err, schema.ErrUnknownKV)
}

func TestGetS3Bucket(t *testing.T) {
	assert.Equal(t, "ethsgw-resolved-by-name", getS3Bucket("EthsGW", schema.ResolvedBucket))
	assert.Equal(t, "ethsgw-banned", getS3Bucket("ethsgw", schema.BannedBucket))
}
