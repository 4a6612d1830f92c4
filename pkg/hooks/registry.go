package hooks

import (
	"runtime"
	"sync"
)

// frameRegistry tracks the active render frame per goroutine, so hooks
// resolve their frame without threading it through every call.
type frameRegistry struct {
	mu     sync.RWMutex
	frames map[uint64]*frame
}

func newFrameRegistry() *frameRegistry {
	return &frameRegistry{frames: make(map[uint64]*frame)}
}

// current returns the active frame for this goroutine, or nil.
func (r *frameRegistry) current() *frame {
	gid := goroutineID()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frames[gid]
}

// set installs (or, with nil, clears) the frame for this goroutine.
func (r *frameRegistry) set(f *frame) {
	gid := goroutineID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if f == nil {
		delete(r.frames, gid)
	} else {
		r.frames[gid] = f
	}
}

// goroutineID parses the current goroutine's ID from the runtime stack
// header ("goroutine <id> ..."). Implementation detail.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}
