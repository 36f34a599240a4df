package grid

import (
	"strings"
	"time"
)

// DayLayout 日期的规范格式
const DayLayout = "2006-01-02"

var dayLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DayLayout,
}

// ParseDay 将日期文本或 time.Time 截断到天
// 丢弃时间和时区偏移，保留书写时的日期：
// "2024-01-05T23:00:00-05:00" 得到 2024-01-05
func ParseDay(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return day(x), true
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return day(*x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dayLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return day(t), true
			}
		}
	}
	return time.Time{}, false
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
