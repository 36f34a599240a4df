package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hatlonely/gridx/ref"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConsoleWriter(t *testing.T) {
	Convey("ConsoleWriter", t, func() {
		w, err := NewConsoleWriterWithOptions(nil)
		So(err, ShouldBeNil)
		So(w.w, ShouldEqual, os.Stderr)
		So(w.Close(), ShouldBeNil)

		w, err = NewConsoleWriterWithOptions(&ConsoleWriterOptions{Target: "stdout"})
		So(err, ShouldBeNil)
		So(w.w, ShouldEqual, os.Stdout)
	})
}

func TestFileWriter(t *testing.T) {
	Convey("FileWriter", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "logs", "grid.log")

		Convey("路径为空", func() {
			_, err := NewFileWriterWithOptions(&FileWriterOptions{})
			So(err, ShouldNotBeNil)
		})

		Convey("写入并自动创建目录", func() {
			w, err := NewFileWriterWithOptions(&FileWriterOptions{Path: path})
			So(err, ShouldBeNil)
			_, err = w.Write([]byte("hello\n"))
			So(err, ShouldBeNil)
			So(w.Close(), ShouldBeNil)
			So(w.Close(), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "hello\n")

			_, err = w.Write([]byte("closed"))
			So(err, ShouldNotBeNil)
		})

		Convey("超过大小后轮转", func() {
			w, err := NewFileWriterWithOptions(&FileWriterOptions{Path: path, MaxBytes: 8, MaxBackups: 2})
			So(err, ShouldBeNil)
			defer w.Close()

			for _, line := range []string{"aaaaaa\n", "bbbbbb\n", "cccccc\n"} {
				_, err := w.Write([]byte(line))
				So(err, ShouldBeNil)
			}

			current, _ := os.ReadFile(path)
			first, _ := os.ReadFile(path + ".1")
			second, _ := os.ReadFile(path + ".2")
			So(string(current), ShouldEqual, "cccccc\n")
			So(string(first), ShouldEqual, "bbbbbb\n")
			So(string(second), ShouldEqual, "aaaaaa\n")
		})
	})
}

func TestMultiWriter(t *testing.T) {
	Convey("MultiWriter", t, func() {
		Convey("至少需要一个输出器", func() {
			_, err := NewMultiWriterWithOptions(&MultiWriterOptions{})
			So(err, ShouldNotBeNil)
		})

		Convey("通过 ref 创建并写入全部输出器", func() {
			w, err := NewWriterWithOptions(&ref.TypeOptions{
				Namespace: Namespace,
				Type:      "MultiWriter",
				Options: &MultiWriterOptions{Writers: []ref.TypeOptions{
					{Namespace: Namespace, Type: "BufferWriter"},
					{Namespace: Namespace, Type: "BufferWriter"},
				}},
			})
			So(err, ShouldBeNil)

			n, err := w.Write([]byte("line\n"))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 5)

			mw := w.(*MultiWriter)
			So(mw.writers, ShouldHaveLength, 2)
			for _, inner := range mw.writers {
				So(inner.(*BufferWriter).Lines(), ShouldResemble, []string{"line"})
			}
			So(w.Close(), ShouldBeNil)
		})

		Convey("NewMultiWriter", func() {
			a, b := NewBufferWriter(), NewBufferWriter()
			mw := NewMultiWriter(a, b)
			_, _ = mw.Write([]byte("x\n"))
			So(a.String(), ShouldEqual, "x\n")
			So(b.String(), ShouldEqual, "x\n")
			a.Reset()
			So(a.String(), ShouldEqual, "")
		})
	})
}
