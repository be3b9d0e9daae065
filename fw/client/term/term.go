package term

import (
	"ps2kbd/fw/kernel"
	"ps2kbd/fw/proto"
)

// Write sends a best-effort payload to the terminal service.
func Write(ctx *kernel.Context, termCap kernel.Capability, payload []byte) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	if len(payload) > kernel.MaxMessageBytes {
		payload = payload[:kernel.MaxMessageBytes]
	}
	return ctx.SendToCapResult(termCap, uint16(proto.MsgTermWrite), payload, kernel.Capability{})
}

// WriteString sends a best-effort string to the terminal service.
func WriteString(ctx *kernel.Context, termCap kernel.Capability, s string) kernel.SendResult {
	return Write(ctx, termCap, []byte(s))
}

// Clear requests a terminal reset/clear.
func Clear(ctx *kernel.Context, termCap kernel.Capability) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	return ctx.SendToCapResult(termCap, uint16(proto.MsgTermClear), nil, kernel.Capability{})
}

// Status replaces the status line text. Older status updates may be dropped.
func Status(ctx *kernel.Context, termCap kernel.Capability, s string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	b := []byte(s)
	if len(b) > kernel.MaxMessageBytes {
		b = b[:kernel.MaxMessageBytes]
	}
	return ctx.SendToCapResult(termCap, uint16(proto.MsgTermStatus), b, kernel.Capability{})
}
