package uid

import (
	"strconv"
	"sync/atomic"
)

type SequenceOptions struct {
	Start int64 `cfg:"start" def:"1"`
}

// SequenceGenerator 单调递增的整数序列，并发安全
type SequenceGenerator struct {
	next atomic.Int64
}

func NewSequenceGeneratorWithOptions(options *SequenceOptions) *SequenceGenerator {
	start := int64(1)
	if options != nil && options.Start != 0 {
		start = options.Start
	}
	g := &SequenceGenerator{}
	g.next.Store(start)
	return g
}

func (g *SequenceGenerator) GenerateInt() int64 {
	return g.next.Add(1) - 1
}

func (g *SequenceGenerator) Generate() string {
	return strconv.FormatInt(g.GenerateInt(), 10)
}
