package output

import (
	"errors"
	"fmt"
)

// Sink defines a destination for scan reports.
type Sink interface {
	Write(v any) error
	Close() error
}

// fileSink is a Sink that writes a file on disk.
type fileSink interface {
	Sink
	Path() string
}

// Manager coordinates writing reports to multiple sinks. Sinks are written in
// the order they were added; a failing sink does not stop the others.
type Manager struct {
	sinks   []Sink
	written []string
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) AddSink(s Sink) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if s == nil {
		return fmt.Errorf("sink must not be nil")
	}
	m.sinks = append(m.sinks, s)
	return nil
}

func (m *Manager) Write(v any) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	m.written = m.written[:0]
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(v); err != nil {
			errs = append(errs, fmt.Errorf("write %T: %w", s, err))
			continue
		}
		if fs, ok := s.(fileSink); ok {
			m.written = append(m.written, fs.Path())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors writing to sinks: %w", errors.Join(errs...))
	}
	return nil
}

// Written lists the files produced by the last successful writes.
func (m *Manager) Written() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.written...)
}

func (m *Manager) Close() error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %T: %w", s, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sinks: %w", errors.Join(errs...))
	}
	return nil
}
