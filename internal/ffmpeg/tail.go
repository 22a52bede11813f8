package ffmpeg

import (
	"bytes"
	"strings"

	"github.com/armon/circbuf"
)

// stderrTail keeps the end of ffmpeg's stderr: at most maxLines lines out of
// the last maxBytes bytes. Not safe for concurrent use.
type stderrTail struct {
	buf      *circbuf.Buffer
	maxLines int
}

func newStderrTail(maxBytes int64, maxLines int) *stderrTail {
	buf, err := circbuf.NewBuffer(maxBytes)
	if err != nil {
		panic(err) // maxBytes is a positive constant
	}
	return &stderrTail{buf: buf, maxLines: maxLines}
}

func (t *stderrTail) Add(line string) {
	t.buf.Write([]byte(line))
	t.buf.Write([]byte{'\n'})
}

// String joins the kept lines oldest first. A line cut by the byte bound
// is dropped.
func (t *stderrTail) String() string {
	data := t.buf.Bytes()
	if t.buf.TotalWritten() > t.buf.Size() {
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			data = data[i+1:]
		}
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > t.maxLines {
		lines = lines[len(lines)-t.maxLines:]
	}
	return strings.Join(lines, "\n")
}
