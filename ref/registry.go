// Package ref 提供按名称注册和创建组件的能力
//
// 仓储、偏好存储、日志输出器等可替换组件都通过 TypeOptions 描述，
// 配置文件中只需要写 namespace/type/options 即可切换实现。
package ref

import (
	"fmt"
	"reflect"
	"sync"
)

// Convertable 可以转换成任意结构体的配置数据，例如 cfg.Node
type Convertable interface {
	ConvertTo(object any) error
}

// TypeOptions 组件的类型描述
type TypeOptions struct {
	Namespace string `cfg:"namespace"`
	Type      string `cfg:"type"`
	Options   any    `cfg:"options"`
}

var registry sync.Map

func key(namespace, typeName string) string {
	return namespace + ":" + typeName
}

// Register 注册构造函数，同一个名字重复注册相同的函数会被忽略
func Register(namespace string, typeName string, fn any) error {
	c, err := newConstructor(fn)
	if err != nil {
		return fmt.Errorf("register %s failed: %w", key(namespace, typeName), err)
	}

	if existing, loaded := registry.LoadOrStore(key(namespace, typeName), c); loaded {
		if existing.(*constructor).pointer != c.pointer {
			return fmt.Errorf("constructor for %s already registered with different function", key(namespace, typeName))
		}
	}
	return nil
}

// RegisterT 以 T 的包路径和类型名注册构造函数
func RegisterT[T any](fn any) error {
	namespace, typeName, err := nameOf[T]()
	if err != nil {
		return err
	}
	return Register(namespace, typeName, fn)
}

// MustRegister 注册失败时 panic，用于 init 函数
func MustRegister(namespace string, typeName string, fn any) {
	if err := Register(namespace, typeName, fn); err != nil {
		panic(err)
	}
}

// MustRegisterT 注册失败时 panic，用于 init 函数
func MustRegisterT[T any](fn any) {
	if err := RegisterT[T](fn); err != nil {
		panic(err)
	}
}

// New 根据名字创建对象
func New(namespace string, typeName string, options any) (any, error) {
	v, ok := registry.Load(key(namespace, typeName))
	if !ok {
		return nil, fmt.Errorf("constructor not found for %s", key(namespace, typeName))
	}
	return v.(*constructor).call(options)
}

// NewWithOptions 根据 TypeOptions 创建对象
func NewWithOptions(options *TypeOptions) (any, error) {
	if options == nil {
		return nil, fmt.Errorf("type options cannot be nil")
	}
	return New(options.Namespace, options.Type, options.Options)
}

// NewT 以 T 的包路径和类型名创建对象
func NewT[T any](options any) (T, error) {
	var zero T
	namespace, typeName, err := nameOf[T]()
	if err != nil {
		return zero, err
	}
	obj, err := New(namespace, typeName, options)
	if err != nil {
		return zero, err
	}
	result, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("created object %T is not of type %T", obj, zero)
	}
	return result, nil
}

// Build 根据 TypeOptions 创建对象并断言成接口 I
func Build[I any](options *TypeOptions) (I, error) {
	var zero I
	obj, err := NewWithOptions(options)
	if err != nil {
		return zero, err
	}
	result, ok := obj.(I)
	if !ok {
		return zero, fmt.Errorf("%s:%s does not implement %v", options.Namespace, options.Type, reflect.TypeOf((*I)(nil)).Elem())
	}
	return result, nil
}

func nameOf[T any]() (string, string, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return "", "", fmt.Errorf("cannot determine package path or type name for %v", t)
	}
	return t.PkgPath(), t.Name(), nil
}
