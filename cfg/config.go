// Package cfg 加载配置文件并绑定到结构体
//
// 支持 json、yaml、toml、ini 格式，文件先解码成由 map[string]any、[]any 和标量组成的配置树，
// 再按 cfg 标签转换成结构体，随后填充 def 标签中的默认值并执行 validate 标签中的校验。
// 环境变量可以按前缀覆盖配置项，例如前缀为 GRIDX 时 GRIDX_STORE_ENTITY 覆盖 store.entity。
//
// Config 实现了 ref.Convertable，插件配置中的 options 会保留为 *Config，
// 由 ref 在创建对象时转换成构造函数的参数类型。
package cfg

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/hatlonely/gridx/cfg/validator"
	"github.com/pkg/errors"
)

type Options struct {
	// Filename 配置文件路径
	Filename string `cfg:"filename" validate:"required"`
	// Format 文件格式，为空时根据扩展名判断
	Format string `cfg:"format" validate:"omitempty,oneof=json yaml yml toml ini"`
	// EnvPrefix 环境变量前缀，为空时不读取环境变量
	EnvPrefix string `cfg:"envPrefix"`
}

// Config 配置树
type Config struct {
	data any
}

// New 包装已经解码的配置树
func New(data any) *Config {
	return &Config{data: normalize(data)}
}

// NewConfig 从文件加载配置
func NewConfig(filename string) (*Config, error) {
	return NewConfigWithOptions(&Options{Filename: filename})
}

func NewConfigWithOptions(options *Options) (*Config, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	if err := validator.ValidateStruct(options); err != nil {
		return nil, errors.WithMessage(err, "validator.ValidateStruct failed")
	}

	buf, err := os.ReadFile(options.Filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s failed", options.Filename)
	}
	format := options.Format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(options.Filename), ".")
	}

	c, err := Parse(buf, format)
	if err != nil {
		return nil, errors.WithMessagef(err, "parse config file %s failed", options.Filename)
	}
	if options.EnvPrefix != "" {
		c.ApplyEnv(options.EnvPrefix, os.Environ())
	}
	return c, nil
}

// Load 加载配置文件并绑定到 object
func Load(filename string, object any) error {
	c, err := NewConfig(filename)
	if err != nil {
		return err
	}
	return c.ConvertTo(object)
}

// Data 配置树的原始数据
func (c *Config) Data() any {
	return c.data
}

// Sub 获取子配置，key 可以包含点号和数组下标，例如 "repository.options.rows[0]"
// key 不存在时返回空配置
func (c *Config) Sub(key string) *Config {
	current := c.data
	for _, k := range splitKey(key) {
		switch v := current.(type) {
		case map[string]any:
			current, _ = lookup(v, k)
		case []any:
			idx, err := strconv.Atoi(k)
			if err != nil || idx < 0 || idx >= len(v) {
				return &Config{}
			}
			current = v[idx]
		default:
			return &Config{}
		}
	}
	return &Config{data: current}
}

// ConvertTo 绑定到 object，然后填充默认值并校验
func (c *Config) ConvertTo(object any) error {
	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.Errorf("object must be a non-nil pointer, got %T", object)
	}
	if err := convert(c.data, rv); err != nil {
		return errors.WithMessage(err, "convert config failed")
	}
	if err := SetDefaults(object); err != nil {
		return errors.WithMessage(err, "SetDefaults failed")
	}
	if err := validator.ValidateStruct(object); err != nil {
		return errors.WithMessage(err, "validator.ValidateStruct failed")
	}
	return nil
}

// ApplyEnv 用带前缀的环境变量覆盖配置项，environ 的格式与 os.Environ 相同
// 变量名去掉前缀后按下划线分段，每一段对应一级配置，匹配时忽略大小写
func (c *Config) ApplyEnv(prefix string, environ []string) {
	prefix = strings.ToUpper(strings.TrimSuffix(prefix, "_")) + "_"
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		path := strings.Split(strings.ToLower(strings.TrimPrefix(name, prefix)), "_")
		c.data = set(c.data, path, value)
	}
}

func splitKey(key string) []string {
	return strings.FieldsFunc(key, func(r rune) bool {
		return r == '.' || r == '[' || r == ']'
	})
}

// set 在配置树中设置 path 对应的值，缺失的中间节点创建为 map
func set(node any, path []string, value any) any {
	if len(path) == 0 {
		return value
	}
	head, rest := path[0], path[1:]

	if list, ok := node.([]any); ok {
		if idx, err := strconv.Atoi(head); err == nil && idx >= 0 && idx < len(list) {
			list[idx] = set(list[idx], rest, value)
			return list
		}
	}

	m, ok := node.(map[string]any)
	if !ok {
		m = map[string]any{}
	}
	key := head
	for k := range m {
		if strings.EqualFold(k, head) {
			key = k
			break
		}
	}
	m[key] = set(m[key], rest, value)
	return m
}
