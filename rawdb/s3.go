package rawdb

import (
	"bytes"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/tunnckoCore/ethsgw/schema"
)

const S3Type = "s3"

// S3DB maps every bucket to the s3 bucket "{prefix}-{bucket}".
type S3DB struct {
	uploader     s3manager.Uploader
	s3Api        s3iface.S3API
	bucketPrefix string
}

func NewS3DB(accKey, secretKey, region, bktPrefix, endpoint string) (*S3DB, error) {
	mySession := session.Must(session.NewSession())
	cred := credentials.NewStaticCredentials(accKey, secretKey, "")
	cfgs := aws.NewConfig().WithRegion(region).WithCredentials(cred)
	if endpoint != "" {
		cfgs.WithEndpoint(endpoint)
		// ip endpoints (minio and friends) need path-style addressing
		if u, err := url.Parse(endpoint); err == nil {
			if net.ParseIP(u.Hostname()) != nil {
				cfgs.S3ForcePathStyle = aws.Bool(true)
			}
		}
	}
	s3Api := s3.New(mySession, cfgs)
	if err := createS3Buckets(s3Api, bktPrefix); err != nil {
		return nil, err
	}

	log.Info("run with s3 success")
	return &S3DB{
		uploader:     s3manager.Uploader{S3: s3Api},
		s3Api:        s3Api,
		bucketPrefix: bktPrefix,
	}, nil
}

func (s *S3DB) Type() string {
	return S3Type
}

func (s *S3DB) Put(bucket, key string, value []byte) (err error) {
	_, err = s.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(getS3Bucket(s.bucketPrefix, bucket)),
		Key:    aws.String(key),
		Body:   bytes.NewReader(value),
	})
	return
}

func (s *S3DB) Get(bucket, key string) ([]byte, error) {
	out, err := s.s3Api.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(getS3Bucket(s.bucketPrefix, bucket)),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, schema.ErrNotExist
		}
		return nil, err
	}
	defer out.Body.Close()
	buf := new(bytes.Buffer)
	if _, err = buf.ReadFrom(out.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *S3DB) GetAllKey(bucket string) (keys []string, err error) {
	keys = make([]string, 0)
	err = s.s3Api.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket: aws.String(getS3Bucket(s.bucketPrefix, bucket)),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, item := range page.Contents {
			keys = append(keys, aws.StringValue(item.Key))
		}
		return true
	})
	return
}

func (s *S3DB) Delete(bucket, key string) (err error) {
	_, err = s.s3Api.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(getS3Bucket(s.bucketPrefix, bucket)),
		Key:    aws.String(key),
	})
	return
}

func (s *S3DB) Exist(bucket, key string) bool {
	_, err := s.s3Api.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(getS3Bucket(s.bucketPrefix, bucket)),
		Key:    aws.String(key),
	})
	return err == nil
}

func (s *S3DB) Close() (err error) {
	return
}

func createS3Buckets(svc s3iface.S3API, prefix string) error {
	for _, bucketName := range schema.AllBuckets {
		s3Bkt := getS3Bucket(prefix, bucketName)
		_, err := svc.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(s3Bkt)})
		if err != nil && !strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
			return err
		}
	}
	return nil
}

// s3 bucket names only accept lower case, dashes instead of underscores
func getS3Bucket(prefix, bktName string) string {
	return strings.ReplaceAll(strings.ToLower(prefix+"-"+bktName), "_", "-")
}
