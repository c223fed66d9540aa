package rawdb

import (
	"errors"
	"os"
	"path"
	"time"

	"github.com/tunnckoCore/ethsgw/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	SqlType    = "sql"
	sqliteName = "ethsgw.sqlite"
)

type KvEntry struct {
	Bucket    string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte
	UpdatedAt time.Time
}

// SqlDB stores every bucket in one kv_entries table.
type SqlDB struct {
	Db *gorm.DB
}

func NewMysqlDB(dsn string) (*SqlDB, error) {
	return newSqlDB(mysql.Open(dsn))
}

func NewSqliteDB(dir string) (*SqlDB, error) {
	if len(dir) == 0 {
		return nil, errors.New("sqlite dir path can not null")
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return newSqlDB(sqlite.Open(path.Join(dir, sqliteName)))
}

func newSqlDB(dialector gorm.Dialector) (*SqlDB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	if err = db.AutoMigrate(&KvEntry{}); err != nil {
		return nil, err
	}
	log.Info("connect sql kv success", "dialect", dialector.Name())
	return &SqlDB{Db: db}, nil
}

func (s *SqlDB) Type() string {
	return SqlType
}

func (s *SqlDB) Put(bucket, key string, value []byte) error {
	entry := &KvEntry{Bucket: bucket, Key: key, Value: value}
	return s.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bucket"}, {Name: "key"}},
		UpdateAll: true,
	}).Create(entry).Error
}

func (s *SqlDB) Get(bucket, key string) ([]byte, error) {
	entry := KvEntry{}
	err := s.Db.Where("bucket = ? AND `key` = ?", bucket, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, schema.ErrNotExist
	}
	return entry.Value, err
}

func (s *SqlDB) GetAllKey(bucket string) (keys []string, err error) {
	keys = make([]string, 0)
	err = s.Db.Model(&KvEntry{}).Where("bucket = ?", bucket).Pluck("key", &keys).Error
	return
}

func (s *SqlDB) Delete(bucket, key string) error {
	return s.Db.Where("bucket = ? AND `key` = ?", bucket, key).Delete(&KvEntry{}).Error
}

func (s *SqlDB) Exist(bucket, key string) bool {
	_, err := s.Get(bucket, key)
	return err == nil
}

func (s *SqlDB) Close() error {
	db, err := s.Db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
