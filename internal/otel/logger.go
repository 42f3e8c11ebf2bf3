package otel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// queueSize bounds the events waiting for the writer. Roughly 800KB of JSONL.
const queueSize = 4096

// queued is one event on its way to the writer. The ring gets ev rather
// than a decode of line so fields outside the JSON form (Dur) survive.
type queued struct {
	line []byte
	ev   Event
}

// Logger appends events to a JSONL stream from a single writer goroutine.
// Emit never blocks: a full queue, a closed logger or a failed write bumps
// the drop counter instead. A nil *Logger accepts and discards everything,
// so components can take one without checking.
//
// Only the writer goroutine touches w. mu guards ring, which SetRingBuffer
// may swap while the writer runs; the ring has its own lock and is pushed
// to after mu is released.
type Logger struct {
	session string
	w       io.Writer
	queue   chan queued
	done    chan struct{}

	mu   sync.Mutex
	ring *RingBuffer

	dropped atomic.Uint64
	closed  atomic.Bool
	once    sync.Once
}

// NewLogger starts a Logger writing to w. Close it to flush.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{
		session: uuid.NewString(),
		w:       w,
		queue:   make(chan queued, queueSize),
		done:    make(chan struct{}),
	}
	go l.run()
	return l
}

// NewNullLogger returns a Logger that writes nowhere. The ring buffer, if
// attached, still fills, which is what the TUI needs when the event file
// cannot be opened.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

func (l *Logger) run() {
	defer close(l.done)
	for q := range l.queue {
		if _, err := l.w.Write(q.line); err != nil {
			l.dropped.Add(1)
		}

		l.mu.Lock()
		ring := l.ring
		l.mu.Unlock()
		if ring != nil {
			ring.Push(q.ev)
		}
	}
}

// Emit stamps e with the session id (and the current time when unset) and
// queues it. Racing Close is fine: a send on the closed queue is recovered
// and counted as a drop.
func (l *Logger) Emit(e Event) {
	if l == nil {
		return
	}
	defer func() {
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()
	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.session

	line, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}

	select {
	case l.queue <- queued{line: append(line, '\n'), ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info event carrying msg.
func (l *Logger) Info(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Debug emits a debug event carrying msg.
func (l *Logger) Debug(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelDebug, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error event; a nil err leaves Err empty.
func (l *Logger) Error(kind EventKind, comp string, err error) {
	e := Event{Level: LevelError, Kind: kind, Comp: comp}
	if err != nil {
		e.Err = err.Error()
	}
	l.Emit(e)
}

// SessionID is the id stamped on every event of this run.
func (l *Logger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.session
}

// SetRingBuffer tees every written event into ring.
func (l *Logger) SetRingBuffer(ring *RingBuffer) {
	l.mu.Lock()
	l.ring = ring
	l.mu.Unlock()
}

// Dropped counts events that never reached the writer.
func (l *Logger) Dropped() uint64 {
	if l == nil {
		return 0
	}
	return l.dropped.Load()
}

// Close drains the queue and stops the writer. Drops, if any, are reported
// once on stderr since the event log itself lost them.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		l.closed.Store(true)
		close(l.queue)
		<-l.done

		if n := l.dropped.Load(); n > 0 {
			fmt.Fprintf(os.Stderr, "pokedex: %d events dropped during session %s\n", n, l.session)
		}
	})
}
