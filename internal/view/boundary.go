package view

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"studytrack/internal/logger"
)

// FallbackMessage replaces the output of a view that failed to render.
const FallbackMessage = "Something went wrong. Please try again later."

// Boundary renders views so that one failing view cannot take down the rest of the output.
type Boundary struct {
	out io.Writer
	log logger.Logger
}

func NewBoundary(out io.Writer, log logger.Logger) *Boundary {
	if log == nil {
		log = logger.GlogLogger{}
	}
	return &Boundary{out: out, log: log}
}

// Render runs fn into a buffer and copies the result to the output. If fn panics or returns an
// error, nothing it wrote is kept and FallbackMessage is shown instead. The fault is reported to
// the logger and returned.
func (b *Boundary) Render(name string, fn func(w io.Writer) error) (err error) {
	var buf bytes.Buffer

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("rendering %s: panic: %v", name, r)
		}
		if err != nil {
			b.log.Error("view failed to render", err)
			_, _ = fmt.Fprintln(b.out, FallbackMessage)
			return
		}
		_, err = b.out.Write(buf.Bytes())
	}()

	if err := fn(&buf); err != nil {
		return errors.Wrapf(err, "rendering %s", name)
	}
	return nil
}
