package logger

import (
	"strconv"

	"ps2kbd/fw/kernel"
	"ps2kbd/fw/proto"
	"ps2kbd/hal"
)

// Service writes MsgLogLine payloads to the HAL logger, prefixed with the
// tick they were received at.
type Service struct {
	log hal.Logger
	ep  kernel.Capability

	buf []byte
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	for msg := range ch {
		if s.log == nil || proto.Kind(msg.Kind) != proto.MsgLogLine {
			continue
		}
		s.log.WriteLineBytes(s.format(ctx.NowTick(), msg.Payload()))
	}
}

func (s *Service) format(tick uint64, line []byte) []byte {
	b := append(s.buf[:0], '[')
	b = strconv.AppendUint(b, tick, 10)
	b = append(b, "] "...)
	b = append(b, line...)
	s.buf = b
	return b
}
