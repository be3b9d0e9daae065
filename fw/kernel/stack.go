//go:build !tinygo

package kernel

import "runtime/debug"

// captureStack returns at most limit bytes of the current goroutine's stack.
func captureStack(limit int) []byte {
	s := debug.Stack()
	if limit > 0 && len(s) > limit {
		s = s[:limit]
	}
	return s
}
