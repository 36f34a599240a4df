package log

import (
	"sync/atomic"

	"github.com/hatlonely/gridx/log/logger"
)

var defaultLogger atomic.Pointer[logger.Logger]

func init() {
	// 默认向 stderr 输出 text 格式日志
	slog, err := logger.NewSLogWithOptions(&logger.SLogOptions{
		Level:        "info",
		Format:       "text",
		TraceContext: true,
	})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	SetDefault(slog)
}

// Default 返回库内部使用的默认日志器
func Default() logger.Logger {
	return *defaultLogger.Load()
}

// SetDefault 替换默认日志器
func SetDefault(l logger.Logger) {
	if l == nil {
		l = logger.Nop{}
	}
	defaultLogger.Store(&l)
}

// Nop 返回丢弃所有日志的日志器
func Nop() logger.Logger {
	return logger.Nop{}
}

// NewWithOptions 根据配置创建日志器，options 为空时返回默认日志器
func NewWithOptions(options *logger.SLogOptions) (logger.Logger, error) {
	if options == nil {
		return Default(), nil
	}
	return logger.NewSLogWithOptions(options)
}

// OrDefault 在 l 为空时返回默认日志器
func OrDefault(l logger.Logger) logger.Logger {
	if l == nil {
		return Default()
	}
	return l
}
