package proto

import (
	"strings"
	"unicode/utf8"
)

// LogLinePayload encodes a MsgLogLine payload: the line without trailing
// newlines, cut to at most max bytes on a rune boundary.
func LogLinePayload(line string, max int) []byte {
	line = strings.TrimRight(line, "\r\n")
	if max >= 0 && len(line) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		line = line[:cut]
	}
	return []byte(line)
}
