package kernel

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// maxPanicStack bounds the stack kept for the panic screen and log.
const maxPanicStack = 8 << 10

// PanicInfo describes a panic recovered from a task goroutine.
type PanicInfo struct {
	TaskID TaskID
	Task   string // dynamic type of the task, e.g. "*ps2kbd.Service"
	Value  any
	Stack  []byte
}

func (p PanicInfo) String() string {
	return fmt.Sprintf("task %d (%s): %v", p.TaskID, p.Task, p.Value)
}

var (
	panicActive  atomic.Bool
	panicOnce    sync.Once
	panicHandler atomic.Pointer[func(PanicInfo)]
)

// InPanicMode reports whether a task has panicked.
func InPanicMode() bool {
	return panicActive.Load()
}

// SetPanicHandler installs the process-wide handler run on the first task
// panic. Later panics are swallowed. fn must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	if fn == nil {
		panicHandler.Store(nil)
		return
	}
	panicHandler.Store(&fn)
}

func triggerPanic(info PanicInfo) {
	panicOnce.Do(func() {
		panicActive.Store(true)
		info.Stack = captureStack(maxPanicStack)
		if fn := panicHandler.Load(); fn != nil {
			(*fn)(info)
		}
	})
}
