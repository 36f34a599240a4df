package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileWriterOptions 文件输出配置
type FileWriterOptions struct {
	// 文件路径
	Path string `cfg:"path" validate:"required"`
	// 单个文件最大字节数，超过后轮转，0 表示不轮转
	MaxBytes int64 `cfg:"maxBytes"`
	// 轮转保留的备份数量，备份文件名为 path.1 ... path.N
	MaxBackups int `cfg:"maxBackups" def:"3"`
}

// FileWriter 文件输出器，支持按大小轮转
type FileWriter struct {
	mu         sync.Mutex
	path       string
	maxBytes   int64
	maxBackups int
	file       *os.File
	size       int64
}

func NewFileWriterWithOptions(options *FileWriterOptions) (*FileWriter, error) {
	if options == nil || options.Path == "" {
		return nil, errors.New("file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(options.Path), 0755); err != nil {
		return nil, errors.Wrapf(err, "os.MkdirAll failed. path: %s", options.Path)
	}

	w := &FileWriter{
		path:       options.Path,
		maxBytes:   options.MaxBytes,
		maxBackups: options.MaxBackups,
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (f *FileWriter) open() error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "os.OpenFile failed. path: %s", f.path)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "file.Stat failed. path: %s", f.path)
	}
	f.file = file
	f.size = info.Size()
	return nil
}

func (f *FileWriter) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return 0, errors.New("file writer is closed")
	}
	if f.maxBytes > 0 && f.size > 0 && f.size+int64(len(p)) > f.maxBytes {
		if err := f.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := f.file.Write(p)
	f.size += int64(n)
	return n, err
}

// rotate 将 path.(N-1) 依次移动到 path.N，当前文件移动到 path.1
func (f *FileWriter) rotate() error {
	if err := f.file.Close(); err != nil {
		return errors.Wrapf(err, "file.Close failed. path: %s", f.path)
	}
	f.file = nil

	if f.maxBackups <= 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return f.open()
	}

	for i := f.maxBackups - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", f.path, i)
		if _, err := os.Stat(src); err == nil {
			if err := os.Rename(src, fmt.Sprintf("%s.%d", f.path, i+1)); err != nil {
				return err
			}
		}
	}
	if err := os.Rename(f.path, f.path+".1"); err != nil {
		return err
	}
	return f.open()
}

func (f *FileWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
