package keyecho

import (
	"strconv"
	"strings"

	logclient "ps2kbd/fw/client/logger"
	termclient "ps2kbd/fw/client/term"
	"ps2kbd/fw/kernel"
	"ps2kbd/fw/proto"
	"ps2kbd/fw/ps2"
)

const logRetryTicks = 5

// Task consumes MsgKeys and shows them on the terminal: typed characters go
// to the console and the modifier state to the status line. With Hold set
// the keys are the held set, so they are shown in the status line instead
// of being echoed. The in capability needs the send right as well, since
// errors go back from it.
type Task struct {
	in      kernel.Capability
	termCap kernel.Capability
	logCap  kernel.Capability
	hold    bool

	keys    []ps2.KeyCode
	mods    ps2.Modifiers
	lastErr string
	echo    []byte
	status  strings.Builder
}

func New(in, termCap, logCap kernel.Capability, hold bool) *Task {
	return &Task{
		in:      in,
		termCap: termCap,
		logCap:  logCap,
		hold:    hold,
		keys:    make([]ps2.KeyCode, 0, ps2.MaxPressedKeys),
	}
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.in)
	if !ok {
		return
	}
	_ = termclient.Clear(ctx, t.termCap)
	_ = termclient.WriteString(ctx, t.termCap, "ps2kbd: type on the keyboard\n")
	_ = termclient.Status(ctx, t.termCap, t.render(0, nil))

	for msg := range ch {
		switch proto.Kind(msg.Kind) {
		case proto.MsgKeys:
			mods, keys, ok := proto.DecodeKeysPayload(msg.Payload(), t.keys[:0])
			if !ok {
				t.reject(ctx, msg)
				continue
			}
			t.keys, t.mods = keys, mods

			if !t.hold {
				t.echo = appendEcho(t.echo[:0], keys)
				if len(t.echo) > 0 {
					_ = termclient.Write(ctx, t.termCap, t.echo)
				}
			}
		case proto.MsgError:
			code, _, detail, ok := proto.DecodeErrorPayload(msg.Payload())
			if !ok {
				continue
			}
			t.lastErr = errorText(code, detail)
		default:
			continue
		}
		_ = termclient.Status(ctx, t.termCap, t.render(t.mods, t.keys))
	}
}

// reject logs a malformed MsgKeys and answers ErrBadMessage on the reply
// capability carried by the message, if any.
func (t *Task) reject(ctx *kernel.Context, msg kernel.Message) {
	detail := "len=" + strconv.Itoa(int(msg.Len))
	_ = logclient.LogRetry(ctx, t.logCap, "keyecho: bad keys payload "+detail, logRetryTicks)
	if msg.Cap.Valid() {
		_ = ctx.Send(t.in, msg.Cap, uint16(proto.MsgError), proto.ErrorPayload(proto.ErrBadMessage, proto.MsgKeys, []byte(detail)))
	}
}

// errorText is the status line form of a port error.
func errorText(code proto.ErrCode, detail []byte) string {
	if code == proto.ErrOverflow {
		return "overflow +" + string(detail)
	}
	return string(detail)
}

// appendEcho appends the characters of keys in order.
func appendEcho(dst []byte, keys []ps2.KeyCode) []byte {
	for _, k := range keys {
		if r := k.Rune(); r != 0 {
			dst = append(dst, byte(r))
		}
	}
	return dst
}

func (t *Task) render(mods ps2.Modifiers, keys []ps2.KeyCode) string {
	t.status.Reset()
	t.status.WriteString("mods: ")
	t.status.WriteString(mods.String())
	if t.hold {
		t.status.WriteString("  held:")
		for _, k := range keys {
			t.status.WriteByte(' ')
			t.status.WriteString(k.String())
		}
	}
	if t.lastErr != "" {
		t.status.WriteString("  err: ")
		t.status.WriteString(t.lastErr)
	}
	return t.status.String()
}
