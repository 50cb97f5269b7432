// Package diag carries the pyramid builder's debug counters and timers out
// to a caller-chosen sink, mirroring the teacher's plain log.Printf/Fatalf
// style rather than pulling in a metrics library the rest of the stack
// never needed.
package diag

import (
	"log"
	"time"

	"github.com/pdok/tilepyramid/geomhelp"
	"github.com/go-spatial/geom"
)

// Sink receives counters and timings emitted while a pyramid is built or
// drilled into. Count and Time must be safe to call while the pyramid's
// internal mutex is held, so implementations must not themselves try to
// call back into the pyramid.
type Sink interface {
	// Count adds n to the named counter.
	Count(name string, n int)
	// Time starts a timer for name and returns a function that stops it and
	// reports the elapsed duration.
	Time(name string) func()
	// Describe reports a free-form diagnostic string under name, e.g. a WKT
	// rendering of a feature the builder made a decision about.
	Describe(name, s string)
}

// NoopSink discards everything. It is the default when no debug sink is
// configured.
type NoopSink struct{}

func (NoopSink) Count(string, int)  {}
func (NoopSink) Time(string) func() { return func() {} }
func (NoopSink) Describe(string, string) {}

// LogSink reports through the standard log package, matching the rest of
// this module's ambient logging.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink builds a Sink backed by logger, or by log.Default() if logger
// is nil.
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Count(name string, n int) {
	s.logger.Printf("tilepyramid: %s: %d", name, n)
}

func (s *LogSink) Time(name string) func() {
	start := time.Now()
	return func() {
		s.logger.Printf("tilepyramid: %s: %s", name, time.Since(start))
	}
}

func (s *LogSink) Describe(name, text string) {
	s.logger.Printf("tilepyramid: %s: %s", name, text)
}

// DescribeGeometry renders g as truncated WKT for inclusion in a log line,
// used when a LogSink is asked to explain why a feature or tile misbehaved.
func DescribeGeometry(g geom.Geometry, maxLen uint) string {
	return geomhelp.WktMustEncode(g, maxLen)
}

// DescribeRings renders a polygon's rings (in the [[ring][point][x,y]]
// shape the pyramid builder carries internally) as truncated WKT.
func DescribeRings(rings [][][2]float64, maxLen uint) string {
	return DescribeGeometry(geomhelp.FloatPolygonToGeomPolygon(rings), maxLen)
}
