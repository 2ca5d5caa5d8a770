package serialmux

import (
	"regexp"
	"strings"
)

// Line kinds emitted by the CSI receiver console.
const (
	LineTypeCSIFrame = "csi_frame"
	LineTypeLog      = "log"
	LineTypeUnknown  = "unknown"
)

// espLogLine matches ESP-IDF log output such as "I (1234) CSI: message",
// optionally wrapped in ANSI colour codes.
var espLogLine = regexp.MustCompile(`^(\x1b\[[0-9;]*m)?[EWIDV] \(\d+\) [^:]+:`)

// ClassifyLine returns a line type token for a console line. marker is the
// frame marker; an empty marker uses "CSI_DATA:".
func ClassifyLine(line, marker string) string {
	if marker == "" {
		marker = "CSI_DATA:"
	}
	if strings.Contains(line, marker) {
		return LineTypeCSIFrame
	}
	if espLogLine.MatchString(line) {
		return LineTypeLog
	}
	return LineTypeUnknown
}
