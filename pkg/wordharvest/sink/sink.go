package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/cognicore/wordharvest/pkg/wordharvest/internalerr"
)

// Create opens path for writing, truncating any previous content.
func Create(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", internalerr.ErrSinkOpen, path, err)
	}
	return f, nil
}

// LineWriter writes one token per line straight to the underlying writer.
// Nothing is buffered, so an interrupted run leaves only complete lines.
type LineWriter struct {
	w     io.Writer
	buf   []byte
	lines int64
}

// New wraps w.
func New(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// WriteLine writes token followed by '\n' in a single Write call.
func (l *LineWriter) WriteLine(token string) error {
	l.buf = append(l.buf[:0], token...)
	l.buf = append(l.buf, '\n')
	if _, err := l.w.Write(l.buf); err != nil {
		return fmt.Errorf("write %q: %w", token, err)
	}
	l.lines++
	return nil
}

// Lines returns how many lines were written.
func (l *LineWriter) Lines() int64 { return l.lines }
