package render

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// FrameFunc renders one frame. It runs on the loop goroutine.
type FrameFunc func()

// LoopErrorHandler handles a panic during a frame. Returning true
// keeps the loop running; false stops it.
type LoopErrorHandler func(err error) bool

// debugLog is settable by the embedding application.
var debugLog func(args ...any)

// SetDebugLog sets the debug logging hook for the render loop.
func SetDebugLog(fn func(args ...any)) {
	debugLog = fn
}

// Loop drives rendering: state changes mark the loop dirty, the loop
// coalesces wake-ups and runs the frame function once per batch, then
// reports the committed frame to subscribers. Rendering is single
// threaded and cooperative; there is no parallelism inside the engine.
type Loop struct {
	frame   FrameFunc
	wake    chan struct{}
	dirty   atomic.Bool
	running atomic.Bool
	onError LoopErrorHandler

	mu        sync.Mutex
	nextSubID int
	committed map[int]func()
}

// NewLoop creates a loop around a frame function.
func NewLoop(frame FrameFunc) *Loop {
	return &Loop{
		frame:     frame,
		wake:      make(chan struct{}, 1),
		committed: make(map[int]func()),
	}
}

// SetErrorHandler installs the panic handler for frames.
func (l *Loop) SetErrorHandler(handler LoopErrorHandler) {
	l.onError = handler
}

// MarkDirty requests a new frame. Multiple marks before the frame runs
// coalesce into one.
func (l *Loop) MarkDirty() {
	if l.dirty.CompareAndSwap(false, true) {
		if l.running.Load() {
			select {
			case l.wake <- struct{}{}:
			default:
				// Wake already pending.
			}
		}
	}
}

// OnFrameCommitted subscribes to the "frame committed" event, invoked
// after each completed frame on the loop goroutine. The returned
// function unsubscribes; overlays tie this to their mount/unmount.
func (l *Loop) OnFrameCommitted(fn func()) (unsubscribe func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextSubID
	l.nextSubID++
	l.committed[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.committed, id)
	}
}

// Start begins the loop goroutine.
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		if debugLog != nil {
			debugLog("[Loop] starting")
		}
		go l.run()
		if l.dirty.Load() {
			select {
			case l.wake <- struct{}{}:
			default:
			}
		}
	}
}

// Stop halts the loop after the current frame.
func (l *Loop) Stop() {
	if l.running.CompareAndSwap(true, false) {
		select {
		case l.wake <- struct{}{}:
		default:
		}
	}
}

// IsRunning reports whether the loop is active.
func (l *Loop) IsRunning() bool { return l.running.Load() }

func (l *Loop) run() {
	for l.running.Load() {
		<-l.wake
		if !l.running.Load() {
			return
		}
		if !l.dirty.CompareAndSwap(true, false) {
			continue
		}
		if !l.renderFrame() {
			l.running.Store(false)
			return
		}
		l.commit()
	}
}

// renderFrame runs one frame with panic recovery; a failing frame
// degrades to a skipped redraw, never a crash of the host.
func (l *Loop) renderFrame() (ok bool) {
	ok = true
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("render: frame panic: %v\n%s", r, debug.Stack())
			if debugLog != nil {
				debugLog("[Loop]", err)
			}
			if l.onError != nil {
				ok = l.onError(err)
			}
		}
	}()
	if l.frame != nil {
		l.frame()
	}
	return ok
}

func (l *Loop) commit() {
	l.mu.Lock()
	subs := make([]func(), 0, len(l.committed))
	for _, fn := range l.committed {
		subs = append(subs, fn)
	}
	l.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
