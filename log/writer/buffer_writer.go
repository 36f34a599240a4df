package writer

import (
	"bytes"
	"strings"
	"sync"
)

// BufferWriter 内存输出器，测试中用来断言诊断日志
type BufferWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func NewBufferWriter() *BufferWriter {
	return &BufferWriter{}
}

func (b *BufferWriter) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *BufferWriter) Close() error {
	return nil
}

// String 返回已写入的全部内容
func (b *BufferWriter) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Lines 返回已写入的非空行
func (b *BufferWriter) Lines() []string {
	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Reset 清空缓冲区
func (b *BufferWriter) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}
