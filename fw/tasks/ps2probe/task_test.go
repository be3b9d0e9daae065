package ps2probe

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"ps2kbd/fw/kernel"
	"ps2kbd/hal"
)

type recordPort struct {
	mu     sync.Mutex
	writes []byte
	fail   error
}

func (p *recordPort) Read(buf []byte) int     { return 0 }
func (p *recordPort) LastError() hal.PS2Error { return hal.PS2ErrNone }
func (p *recordPort) Overflows() uint32       { return 0 }
func (p *recordPort) Write(cmd byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.writes = append(p.writes, cmd)
	return nil
}

func (p *recordPort) snapshot() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.writes...)
}

func TestProbeCyclesLEDs(t *testing.T) {
	port := &recordPort{}
	k := kernel.New()
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	k.AddTask(New(port, logEP.Restrict(kernel.RightSend), 1))

	want := []byte{0xEE}
	for i := 0; i < 9; i++ {
		want = append(want, 0xED, byte(i&7))
	}

	deadline := time.Now().Add(2 * time.Second)
	for seq := uint64(1); len(port.snapshot()) < len(want); seq++ {
		if time.Now().After(deadline) {
			t.Fatalf("writes = % x, want prefix % x", port.snapshot(), want)
		}
		k.TickTo(seq)
		time.Sleep(time.Millisecond)
	}

	if got := port.snapshot()[:len(want)]; !bytes.Equal(got, want) {
		t.Fatalf("writes = % x, want % x", got, want)
	}
}

func TestProbeStepStopsOnWriteError(t *testing.T) {
	port := &recordPort{fail: errors.New("timeout")}
	k := kernel.New()
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	task := New(port, logEP.Restrict(kernel.RightSend), 1)
	done := make(chan struct{})
	k.AddTask(stepOnce{task: task, done: done})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
	if task.leds != 0 {
		t.Fatalf("leds advanced to %d after a failed write", task.leds)
	}
}

type stepOnce struct {
	task *Task
	done chan struct{}
}

func (s stepOnce) Run(ctx *kernel.Context) {
	s.task.step(ctx)
	close(s.done)
}
