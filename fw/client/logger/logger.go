package logger

import (
	"fmt"

	"ps2kbd/fw/kernel"
	"ps2kbd/fw/proto"
)

// Log sends a log line to the logger service.
//
// The call is best-effort: it may drop on queue full.
func Log(ctx *kernel.Context, logCap kernel.Capability, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgLogLine), payload(line), kernel.Capability{})
}

// Logf formats and sends a log line. See Log.
func Logf(ctx *kernel.Context, logCap kernel.Capability, format string, args ...any) kernel.SendResult {
	return Log(ctx, logCap, fmt.Sprintf(format, args...))
}

// LogRetry sends a log line, waiting up to retryTicks ticks for queue space.
func LogRetry(ctx *kernel.Context, logCap kernel.Capability, line string, retryTicks int) error {
	if ctx == nil {
		return fmt.Errorf("logger retry: nil context")
	}
	res := ctx.SendToCapRetry(logCap, uint16(proto.MsgLogLine), payload(line), kernel.Capability{}, retryTicks)
	if res != kernel.SendOK {
		return fmt.Errorf("logger send: %s", res)
	}
	return nil
}

func payload(line string) []byte {
	return proto.LogLinePayload(line, kernel.MaxMessageBytes)
}
