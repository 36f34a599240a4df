// Package prefs 持久化表格偏好
//
// 偏好按 租户/用户/实体 划分作用域，经 Codec 编码后写入 Backend。
// Backend 可以是内存、freecache、redis 或 bolt 文件。
package prefs

import (
	"context"
	"strings"
	"time"

	"github.com/hatlonely/gridx/grid/filter"
	"github.com/hatlonely/gridx/grid/order"
	"github.com/hatlonely/gridx/log"
	"github.com/hatlonely/gridx/log/logger"
	"github.com/hatlonely/gridx/ref"
	"github.com/pkg/errors"
)

// Namespace 偏好存储后端注册的命名空间
const Namespace = "github.com/hatlonely/gridx/prefs"

func init() {
	ref.MustRegisterT[MapBackend](NewMapBackend)
	ref.MustRegisterT[FreeCacheBackend](NewFreeCacheBackendWithOptions)
	ref.MustRegisterT[RedisBackend](NewRedisBackendWithOptions)
	ref.MustRegisterT[BoltBackend](NewBoltBackendWithOptions)
}

// ErrNotFound 作用域下没有保存过偏好
var ErrNotFound = errors.New("preferences not found")

// Scope 偏好的作用域
type Scope struct {
	Tenant string `cfg:"tenant" json:"tenant"`
	User   string `cfg:"user" json:"user"`
	Entity string `cfg:"entity" json:"entity" validate:"required"`
}

// Key 作用域在后端中的键，空的部分用 "_" 占位
func (s Scope) Key() string {
	parts := []string{s.Tenant, s.User, s.Entity}
	for i, p := range parts {
		if p == "" {
			parts[i] = "_"
		}
	}
	return strings.Join(parts, "/")
}

// Preferences 表格的排序、筛选和列可见性设置
type Preferences struct {
	SortRules           []order.Rule       `json:"sortRules,omitempty" msgpack:"sortRules" bson:"sortRules" cfg:"sortRules"`
	FilterConditions    []filter.Condition `json:"filterConditions,omitempty" msgpack:"filterConditions" bson:"filterConditions" cfg:"filterConditions"`
	ColumnVisibility    map[string]bool    `json:"columnVisibility,omitempty" msgpack:"columnVisibility" bson:"columnVisibility" cfg:"columnVisibility"`
	SortCaseSensitive   bool               `json:"sortCaseSensitive" msgpack:"sortCaseSensitive" bson:"sortCaseSensitive" cfg:"sortCaseSensitive"`
	SortNullsFirst      bool               `json:"sortNullsFirst" msgpack:"sortNullsFirst" bson:"sortNullsFirst" cfg:"sortNullsFirst"`
	FilterCaseSensitive bool               `json:"filterCaseSensitive" msgpack:"filterCaseSensitive" bson:"filterCaseSensitive" cfg:"filterCaseSensitive"`
}

// Store 偏好存储
type Store interface {
	// Load 作用域下没有偏好时返回 ErrNotFound
	Load(ctx context.Context, scope Scope) (*Preferences, error)
	Save(ctx context.Context, scope Scope, prefs *Preferences) error
	Delete(ctx context.Context, scope Scope) error
	Close() error
}

type KVStoreOptions struct {
	// Backend 默认为内存 MapBackend
	Backend *ref.TypeOptions `cfg:"backend"`
	Codec   string           `cfg:"codec" def:"json" validate:"omitempty,oneof=json msgpack bson"`
	Prefix  string           `cfg:"prefix" def:"gridx:prefs:"`
	// TTL 为 0 时不过期，只有 freecache 和 redis 后端支持
	TTL time.Duration `cfg:"ttl"`
}

// KVStore 基于键值后端的偏好存储
type KVStore struct {
	backend Backend
	codec   Codec
	prefix  string
	ttl     time.Duration
	logger  logger.Logger
}

func NewKVStoreWithOptions(options *KVStoreOptions) (*KVStore, error) {
	if options == nil {
		options = &KVStoreOptions{}
	}

	backend, err := NewBackendWithOptions(options.Backend)
	if err != nil {
		return nil, errors.WithMessage(err, "NewBackendWithOptions failed")
	}
	codec, err := NewCodec(options.Codec)
	if err != nil {
		return nil, err
	}

	return &KVStore{
		backend: backend,
		codec:   codec,
		prefix:  options.Prefix,
		ttl:     options.TTL,
		logger:  log.Default().WithGroup("prefs"),
	}, nil
}

// NewKVStore 使用已创建的后端
func NewKVStore(backend Backend, codec Codec, prefix string) *KVStore {
	return &KVStore{backend: backend, codec: codec, prefix: prefix, logger: log.Default().WithGroup("prefs")}
}

// SetLogger 替换日志器
func (s *KVStore) SetLogger(l logger.Logger) {
	s.logger = log.OrDefault(l)
}

func (s *KVStore) Load(ctx context.Context, scope Scope) (*Preferences, error) {
	buf, err := s.backend.Get(ctx, s.prefix+scope.Key())
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "load preferences %s failed", scope.Key())
	}

	prefs := &Preferences{}
	if err := s.codec.Unmarshal(buf, prefs); err != nil {
		s.logger.WarnContext(ctx, "drop undecodable preferences", "scope", scope.Key(), "error", err.Error())
		return nil, errors.Wrapf(err, "decode preferences %s failed", scope.Key())
	}
	return prefs, nil
}

func (s *KVStore) Save(ctx context.Context, scope Scope, prefs *Preferences) error {
	if prefs == nil {
		return s.Delete(ctx, scope)
	}
	buf, err := s.codec.Marshal(prefs)
	if err != nil {
		return errors.Wrapf(err, "encode preferences %s failed", scope.Key())
	}
	if err := s.backend.Set(ctx, s.prefix+scope.Key(), buf, s.ttl); err != nil {
		return errors.WithMessagef(err, "save preferences %s failed", scope.Key())
	}
	s.logger.DebugContext(ctx, "preferences saved", "scope", scope.Key(), "bytes", len(buf))
	return nil
}

func (s *KVStore) Delete(ctx context.Context, scope Scope) error {
	return s.backend.Del(ctx, s.prefix+scope.Key())
}

func (s *KVStore) Close() error {
	return s.backend.Close()
}
