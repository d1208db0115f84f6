package repository

import (
	"bytes"
	"context"
	"edusphere_backend/internal/config"
	"edusphere_backend/internal/util"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectProvider 定义对象存储接口；对象不存在时 GetObject 返回 util.ErrKeyNotFound
type ObjectProvider interface {
	PutObject(ctx context.Context, name string, data []byte, contentType string) error
	GetObject(ctx context.Context, name string) ([]byte, error)
	RemoveObject(ctx context.Context, name string) error
	Ping(ctx context.Context) error
}

// ObjectStore 把每个状态文档存为 state/<key>.json 对象
type ObjectStore struct {
	Provider ObjectProvider
	name     string
}

func NewObjectStore(provider ObjectProvider, name string) *ObjectStore {
	return &ObjectStore{Provider: provider, name: name}
}

func objectName(key string) string {
	return "state/" + key + ".json"
}

func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.Provider.GetObject(ctx, objectName(key))
}

func (s *ObjectStore) Put(ctx context.Context, key string, value []byte) error {
	return s.Provider.PutObject(ctx, objectName(key), value, "application/json")
}

func (s *ObjectStore) Delete(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		if err := s.Provider.RemoveObject(ctx, objectName(key)); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *ObjectStore) Ping(ctx context.Context) error {
	return s.Provider.Ping(ctx)
}

func (s *ObjectStore) Name() string { return s.name }

// MinioProvider MinIO存储实现
type MinioProvider struct {
	Bucket string
	Client *minio.Client
}

func NewMinioProvider(ctx context.Context, cfg *config.StorageConfig) (*MinioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &MinioProvider{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioProvider) PutObject(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := p.Client.PutObject(ctx, p.Bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (p *MinioProvider) GetObject(ctx context.Context, name string) ([]byte, error) {
	obj, err := p.Client.GetObject(ctx, p.Bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, minioErr(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, minioErr(err)
	}
	return data, nil
}

func (p *MinioProvider) RemoveObject(ctx context.Context, name string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, name, minio.RemoveObjectOptions{})
}

func (p *MinioProvider) Ping(ctx context.Context) error {
	_, err := p.Client.BucketExists(ctx, p.Bucket)
	return err
}

func minioErr(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return util.ErrKeyNotFound
	}
	return err
}

// OSSProvider 阿里云OSS存储实现
type OSSProvider struct {
	Client *oss.Client
	Bucket *oss.Bucket
}

func NewOSSProvider(cfg *config.StorageConfig) (*OSSProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSProvider{Client: client, Bucket: bucket}, nil
}

func (p *OSSProvider) PutObject(ctx context.Context, name string, data []byte, contentType string) error {
	return p.Bucket.PutObject(name, bytes.NewReader(data), oss.ContentType(contentType))
}

func (p *OSSProvider) GetObject(ctx context.Context, name string) ([]byte, error) {
	body, err := p.Bucket.GetObject(name)
	if err != nil {
		var svcErr oss.ServiceError
		if errors.As(err, &svcErr) && svcErr.StatusCode == http.StatusNotFound {
			return nil, util.ErrKeyNotFound
		}
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (p *OSSProvider) RemoveObject(ctx context.Context, name string) error {
	return p.Bucket.DeleteObject(name)
}

func (p *OSSProvider) Ping(ctx context.Context) error {
	ok, err := p.Client.IsBucketExist(p.Bucket.BucketName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("oss bucket %q does not exist", p.Bucket.BucketName)
	}
	return nil
}
