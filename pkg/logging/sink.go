package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/logward/logward/pkg/metrics"
)

// sink is one independent output destination. It filters by its own minimum
// severity and owns its own failure handling: a write failure is reported to the
// fallback error stream and swallowed, so one sink's failure never blocks or
// corrupts another sink's delivery and never raises into application code.
type sink struct {
	name   string
	min    zerolog.Level
	w      io.Writer
	errOut io.Writer
}

func newSink(name string, min zerolog.Level, w io.Writer, errOut io.Writer) *sink {
	if errOut == nil {
		errOut = os.Stderr
	}
	return &sink{name: name, min: min, w: w, errOut: errOut}
}

// Write satisfies io.Writer for events with no level information (zerolog.NoLevel).
func (s *sink) Write(p []byte) (int, error) {
	return s.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel delivers one fully formed record if it meets the sink's minimum
// severity. The returned error is always nil: delivery failures stay inside the
// sink's own failure domain.
func (s *sink) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < s.min {
		return len(p), nil
	}

	if _, err := s.w.Write(p); err != nil {
		fmt.Fprintf(s.errOut, "logward: %s sink: %v\n", s.name, err)
		metrics.RecordDropped(s.name, metrics.ReasonDelivery)
		return len(p), nil
	}

	metrics.RecordDelivered(s.name, level.String())
	return len(p), nil
}

// closers collects the sink resources that hold file handles or goroutines.
type closers []func() error

func (c closers) closeAll() error {
	var first error
	for _, fn := range c {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
