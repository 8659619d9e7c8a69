// Package diag carries non-fatal parser and assembler findings (ignored
// directives, unmapped collision groups, unresolved textures) to whoever wants
// to observe them.
package diag

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// Kind classifies a diagnostic event.
type Kind int

const (
	IgnoredDirective   Kind = iota // Directive or key the parser does not use
	UnmappedGroup                  // Collision group name outside the fixed table
	UnresolvedTexture              // Texture reference the loader could not resolve
	UnterminatedRecord             // Trailing attachment record without END
	UnassignedFaces                // Faces whose material matches no declared material
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case IgnoredDirective:
		return "IgnoredDirective"
	case UnmappedGroup:
		return "UnmappedGroup"
	case UnresolvedTexture:
		return "UnresolvedTexture"
	case UnterminatedRecord:
		return "UnterminatedRecord"
	case UnassignedFaces:
		return "UnassignedFaces"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Event is a single diagnostic.
type Event struct {
	Kind   Kind
	Source string // File or stream name
	Line   int    // 1-based line, 0 when not line-specific
	Detail string
	Err    error // Underlying cause, if any
}

// String formats the event as "source:line: kind: detail".
func (e Event) String() string {
	loc := e.Source
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Source, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", loc, e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", loc, e.Kind, e.Detail)
}

// Sink receives diagnostic events.
type Sink interface {
	Report(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Report calls f(e).
func (f SinkFunc) Report(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Tee fans events out to several sinks. Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			if s != nil {
				s.Report(e)
			}
		}
	})
}

// Collector records events in memory.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// Report stores the event.
func (c *Collector) Report(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of the recorded events in arrival order.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Count returns how many events of the given kind were recorded.
func (c *Collector) Count(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Err combines the causes of all UnresolvedTexture events into one error,
// or returns nil when there were none.
func (c *Collector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	for _, e := range c.events {
		if e.Kind != UnresolvedTexture {
			continue
		}
		cause := e.Err
		if cause == nil {
			cause = fmt.Errorf("%s", e.Detail)
		}
		err = multierr.Append(err, fmt.Errorf("%s: %w", e.Source, cause))
	}
	return err
}
