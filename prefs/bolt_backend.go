package prefs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

type BoltBackendOptions struct {
	// DBPath 数据库文件路径，不存在时自动创建
	DBPath string `cfg:"dbPath" validate:"required"`

	// 默认桶名称
	BucketName string `cfg:"bucketName" def:"preferences"`

	// Timeout 是获取文件锁的等待时间，设置为零时将无限期等待
	Timeout time.Duration `cfg:"timeout" def:"1s"`

	// NoSync 跳过每次提交后的 fsync
	NoSync bool `cfg:"noSync"`
}

// BoltBackend 单文件的持久化后端，不支持过期
type BoltBackend struct {
	db         *bolt.DB
	bucketName []byte
}

func NewBoltBackendWithOptions(options *BoltBackendOptions) (*BoltBackend, error) {
	if options == nil || options.DBPath == "" {
		return nil, errors.New("bolt dbPath is required")
	}

	directory := filepath.Dir(options.DBPath)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, errors.Wrapf(err, "os.MkdirAll failed. directory: %s", directory)
	}

	db, err := bolt.Open(options.DBPath, 0600, &bolt.Options{
		Timeout: options.Timeout,
		NoSync:  options.NoSync,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "bolt.Open failed. dbPath: %s", options.DBPath)
	}

	bucketName := "preferences"
	if options.BucketName != "" {
		bucketName = options.BucketName
	}
	backend := &BoltBackend{db: db, bucketName: []byte(bucketName)}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(backend.bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create bucket failed")
	}
	return backend, nil
}

func (b *BoltBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(b.bucketName).Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		// bolt 返回的切片只在事务内有效
		value = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *BoltBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucketName).Put([]byte(key), value)
	})
}

func (b *BoltBackend) Del(ctx context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucketName).Delete([]byte(key))
	})
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
