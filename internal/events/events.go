// Package events carries progress messages from long-running operations to
// whoever is listening: the process log and websocket subscribers.
package events

import (
	"fmt"
	"log"
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "INFO"
	LevelSuccess Level = "SUCCESS"
	LevelError   Level = "ERROR"
)

type Event struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func newEvent(level Level, format string, args ...any) Event {
	return Event{
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now().UTC(),
	}
}

func Infof(format string, args ...any) Event    { return newEvent(LevelInfo, format, args...) }
func Successf(format string, args ...any) Event { return newEvent(LevelSuccess, format, args...) }
func Errorf(format string, args ...any) Event   { return newEvent(LevelError, format, args...) }

// Emitter receives events. Emit must not block for long.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(Event)

func (f EmitterFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Emitter = EmitterFunc(func(Event) {})

// LogSink writes events to the standard logger.
type LogSink struct{}

func (LogSink) Emit(e Event) {
	log.Printf("%s [events] %s", e.Level, e.Message)
}

// Bus fans each event out to every subscribed emitter in subscription order.
type Bus struct {
	mu    sync.RWMutex
	sinks []Emitter
}

func NewBus(sinks ...Emitter) *Bus {
	return &Bus{sinks: sinks}
}

func (b *Bus) Subscribe(sink Emitter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, sink)
}

func (b *Bus) Emit(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sink := range b.sinks {
		sink.Emit(e)
	}
}

// Recorder keeps every event it receives. It is meant for tests and CLI summaries.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Levels returns the level of each recorded event in order.
func (r *Recorder) Levels() []Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	levels := make([]Level, len(r.events))
	for i, e := range r.events {
		levels[i] = e.Level
	}
	return levels
}
