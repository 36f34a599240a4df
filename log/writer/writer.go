package writer

import (
	"io"

	"github.com/hatlonely/gridx/ref"
)

// Namespace 输出器在 ref 中注册的命名空间
const Namespace = "github.com/hatlonely/gridx/log/writer"

func init() {
	ref.MustRegister(Namespace, "ConsoleWriter", NewConsoleWriterWithOptions)
	ref.MustRegister(Namespace, "FileWriter", NewFileWriterWithOptions)
	ref.MustRegister(Namespace, "MultiWriter", NewMultiWriterWithOptions)
	ref.MustRegister(Namespace, "BufferWriter", NewBufferWriter)
}

// Writer 日志输出器接口
type Writer interface {
	io.Writer
	io.Closer
}

// NewWriterWithOptions 根据 TypeOptions 创建输出器
func NewWriterWithOptions(options *ref.TypeOptions) (Writer, error) {
	return ref.Build[Writer](options)
}
