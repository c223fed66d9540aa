package rawdb

import (
	"bytes"
	"errors"
	"io"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/tunnckoCore/ethsgw/schema"
)

// refer https://help.aliyun.com/document_detail/32157.html
const (
	ossErrorNoSuchKey = "NoSuchKey"
	AliyunType        = "aliyun"
)

// AliyunDB maps every bucket to the oss bucket "{prefix}-{bucket}", like S3DB.
type AliyunDB struct {
	bucketPrefix string
	client       *oss.Client
}

func NewAliyunDB(endpoint, accKey, accessKeySecret, bktPrefix string) (*AliyunDB, error) {
	client, err := oss.New(endpoint, accKey, accessKeySecret)
	if err != nil {
		return nil, err
	}
	if err = createAliyunBuckets(client, bktPrefix); err != nil {
		return nil, err
	}

	log.Info("run with aliyun oss success")
	return &AliyunDB{
		bucketPrefix: bktPrefix,
		client:       client,
	}, nil
}

func (a *AliyunDB) Type() string {
	return AliyunType
}

func (a *AliyunDB) Put(bucket, key string, value []byte) (err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return err
	}
	return bkt.PutObject(key, bytes.NewReader(value))
}

func (a *AliyunDB) Get(bucket, key string) (data []byte, err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return
	}
	body, err := bkt.GetObject(key)
	if err != nil {
		return nil, handleOSSErr(err)
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (a *AliyunDB) GetAllKey(bucket string) (keys []string, err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return
	}

	keys = make([]string, 0)
	continueToken := ""
	for {
		lsRes, err := bkt.ListObjectsV2(oss.ContinuationToken(continueToken))
		if err != nil {
			return nil, err
		}
		for _, object := range lsRes.Objects {
			keys = append(keys, object.Key)
		}
		if !lsRes.IsTruncated {
			return keys, nil
		}
		continueToken = lsRes.NextContinuationToken
	}
}

func (a *AliyunDB) Delete(bucket, key string) (err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return
	}
	return bkt.DeleteObject(key)
}

func (a *AliyunDB) Exist(bucket, key string) bool {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return false
	}
	exist, _ := bkt.IsObjectExist(key)
	return exist
}

func (a *AliyunDB) Close() (err error) {
	return
}

func createAliyunBuckets(svc *oss.Client, prefix string) error {
	lsRes, err := svc.ListBuckets(oss.Prefix(prefix))
	if err != nil {
		return err
	}
	own := make(map[string]bool)
	for _, bucket := range lsRes.Buckets {
		own[bucket.Name] = true
	}

	for _, bucketName := range schema.AllBuckets {
		ossBkt := getS3Bucket(prefix, bucketName)
		if own[ossBkt] {
			continue
		}
		if err = svc.CreateBucket(ossBkt); err != nil {
			return err
		}
	}
	return nil
}

// handleOSSErr turns a missing key into schema.ErrNotExist.
func handleOSSErr(ossErr error) error {
	var svcErr oss.ServiceError
	if errors.As(ossErr, &svcErr) && svcErr.Code == ossErrorNoSuchKey {
		return schema.ErrNotExist
	}
	return ossErr
}
