package ethsgw

import (
	"encoding/json"
	"errors"

	"github.com/tunnckoCore/ethsgw/rawdb"
	"github.com/tunnckoCore/ethsgw/schema"
)

// Store keeps the two permanent caches on top of a KeyValueDB backend.
type Store struct {
	KVDb rawdb.KeyValueDB
}

func NewStore(db rawdb.KeyValueDB) *Store {
	return &Store{KVDb: db}
}

func (s *Store) Close() error {
	return s.KVDb.Close()
}

func (s *Store) SaveBanned(id string, meta schema.ContentMeta) error {
	by, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.BannedBucket, id, by)
}

// LoadBanned returns schema.ErrNotExist on a miss; an undecodable value is a miss too.
func (s *Store) LoadBanned(id string) (*schema.ContentMeta, error) {
	by, err := s.KVDb.Get(schema.BannedBucket, id)
	if err != nil {
		metricCache(schema.BannedBucket, false)
		return nil, err
	}
	meta := &schema.ContentMeta{}
	if err = json.Unmarshal(by, meta); err != nil {
		log.Warn("undecodable banned cache entry", "id", id, "err", err)
		metricCache(schema.BannedBucket, false)
		return nil, schema.ErrNotExist
	}
	metricCache(schema.BannedBucket, true)
	return meta, nil
}

func (s *Store) SaveResolved(key string, res schema.Resolution) error {
	by, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.ResolvedBucket, key, by)
}

func (s *Store) LoadResolved(key string) (*schema.Resolution, error) {
	by, err := s.KVDb.Get(schema.ResolvedBucket, key)
	if err != nil {
		metricCache(schema.ResolvedBucket, false)
		return nil, err
	}
	res := &schema.Resolution{}
	if err = json.Unmarshal(by, res); err != nil || res.Address == "" {
		log.Warn("undecodable resolved cache entry", "key", key, "err", err)
		metricCache(schema.ResolvedBucket, false)
		return nil, schema.ErrNotExist
	}
	metricCache(schema.ResolvedBucket, true)
	return res, nil
}

// Count returns the number of keys in bucket.
func (s *Store) Count(bucket string) (int, error) {
	keys, err := s.KVDb.GetAllKey(bucket)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	return len(keys), nil
}

// ClearAll deletes every key of every cache bucket and returns how many were removed.
func (s *Store) ClearAll() (int, error) {
	count := 0
	for _, bucket := range schema.AllBuckets {
		keys, err := s.KVDb.GetAllKey(bucket)
		if err != nil {
			if errors.Is(err, schema.ErrNotExist) {
				continue
			}
			return count, err
		}
		for _, key := range keys {
			log.Debug("deleting", "bucket", bucket, "key", key)
			if err = s.KVDb.Delete(bucket, key); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
