package keyecho

import (
	"testing"
	"time"

	"ps2kbd/fw/kernel"
	"ps2kbd/fw/proto"
	"ps2kbd/fw/ps2"
)

func TestAppendEcho(t *testing.T) {
	keys := []ps2.KeyCode{ps2.KeyH, ps2.KeyI, ps2.KeyExclaim, ps2.KeyEnter}
	if got := string(appendEcho(nil, keys)); got != "hi!\n" {
		t.Fatalf("appendEcho() = %q, want %q", got, "hi!\n")
	}
	if got := appendEcho(nil, []ps2.KeyCode{ps2.KeyNone}); len(got) != 0 {
		t.Fatalf("appendEcho(KeyNone) = %q, want empty", got)
	}
}

func TestRenderStatus(t *testing.T) {
	echo := New(kernel.Capability{}, kernel.Capability{}, kernel.Capability{}, false)
	if got := echo.render(ps2.ShiftLeft|ps2.AltRight, []ps2.KeyCode{ps2.KeyA}); got != "mods: shift-l+alt-r" {
		t.Fatalf("render() = %q", got)
	}

	hold := New(kernel.Capability{}, kernel.Capability{}, kernel.Capability{}, true)
	want := "mods: -  held: " + ps2.KeyA.String() + " " + ps2.KeyB.String()
	if got := hold.render(0, []ps2.KeyCode{ps2.KeyA, ps2.KeyB}); got != want {
		t.Fatalf("render() = %q, want %q", got, want)
	}
}

func TestRenderShowsLastError(t *testing.T) {
	echo := New(kernel.Capability{}, kernel.Capability{}, kernel.Capability{}, false)
	echo.lastErr = errorText(proto.ErrDevice, []byte("parity"))
	if got := echo.render(0, nil); got != "mods: -  err: parity" {
		t.Fatalf("render() = %q", got)
	}
	if got := errorText(proto.ErrOverflow, []byte("3")); got != "overflow +3" {
		t.Fatalf("errorText(overflow) = %q", got)
	}
}

type sink struct {
	cap   kernel.Capability
	kinds chan<- proto.Kind
}

func (s *sink) Run(ctx *kernel.Context) {
	for {
		msg, ok := ctx.Recv(s.cap)
		if !ok {
			return
		}
		s.kinds <- proto.Kind(msg.Kind)
	}
}

// badKeysSender publishes a truncated MsgKeys and forwards the reply.
type badKeysSender struct {
	keys    kernel.Capability
	reply   kernel.Capability
	replies chan<- kernel.Message
}

func (s *badKeysSender) Run(ctx *kernel.Context) {
	res := ctx.SendToCapResult(s.keys, uint16(proto.MsgKeys), []byte{0, 5}, s.reply.Restrict(kernel.RightSend))
	if res != kernel.SendOK {
		return
	}
	if msg, ok := ctx.Recv(s.reply); ok {
		s.replies <- msg
	}
}

func TestBadKeysPayloadIsAnswered(t *testing.T) {
	k := kernel.New()
	keysEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	termEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	replyEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	termKinds := make(chan proto.Kind, 16)
	logKinds := make(chan proto.Kind, 16)
	replies := make(chan kernel.Message, 1)

	k.AddTask(&sink{cap: termEP.Restrict(kernel.RightRecv), kinds: termKinds})
	k.AddTask(&sink{cap: logEP.Restrict(kernel.RightRecv), kinds: logKinds})
	k.AddTask(New(keysEP, termEP.Restrict(kernel.RightSend), logEP.Restrict(kernel.RightSend), false))

	select {
	case kind := <-termKinds:
		if kind != proto.MsgTermClear {
			t.Fatalf("first terminal message = %s, want term_clear", kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for console clear")
	}

	k.AddTask(&badKeysSender{keys: keysEP.Restrict(kernel.RightSend), reply: replyEP, replies: replies})

	select {
	case msg := <-replies:
		code, ref, detail, ok := proto.DecodeErrorPayload(msg.Payload())
		if !ok || proto.Kind(msg.Kind) != proto.MsgError || code != proto.ErrBadMessage || ref != proto.MsgKeys {
			t.Fatalf("reply = %s %s %s, want error bad_message keys", proto.Kind(msg.Kind), code, ref)
		}
		if string(detail) != "len=2" {
			t.Fatalf("reply detail = %q, want len=2", detail)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ErrBadMessage")
	}

	select {
	case kind := <-logKinds:
		if kind != proto.MsgLogLine {
			t.Fatalf("log message kind = %s, want log_line", kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for log line")
	}
}
