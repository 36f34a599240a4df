// Package uid 生成记录标识
//
// 字符串标识用于乐观创建时的临时 id，整数标识用于内存仓储分配的服务端 id。
package uid

import (
	"github.com/hatlonely/gridx/ref"
	"github.com/pkg/errors"
)

func init() {
	ref.MustRegisterT[UUIDGenerator](NewUUIDGeneratorWithOptions)
	ref.MustRegisterT[SequenceGenerator](NewSequenceGeneratorWithOptions)
}

// Generator 生成字符串标识
type Generator interface {
	Generate() string
}

// IntGenerator 生成整数标识
type IntGenerator interface {
	GenerateInt() int64
}

// NewGeneratorWithOptions 创建字符串生成器，options 为空时使用 UUIDGenerator
func NewGeneratorWithOptions(options *ref.TypeOptions) (Generator, error) {
	if options == nil {
		return NewUUIDGeneratorWithOptions(nil), nil
	}
	generator, err := ref.Build[Generator](options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.Build failed")
	}
	return generator, nil
}

// NewIntGeneratorWithOptions 创建整数生成器，options 为空时使用从 1 开始的 SequenceGenerator
func NewIntGeneratorWithOptions(options *ref.TypeOptions) (IntGenerator, error) {
	if options == nil {
		return NewSequenceGeneratorWithOptions(nil), nil
	}
	generator, err := ref.Build[IntGenerator](options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.Build failed")
	}
	return generator, nil
}
