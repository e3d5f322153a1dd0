package config

import (
	"fmt"
	"strings"
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

func NormalizeLogFormat(raw string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(raw))
	switch format {
	case "":
		return LogFormatJSON, nil
	case LogFormatJSON, LogFormatText:
		return format, nil
	default:
		return "", fmt.Errorf("invalid log format %q (expected %s|%s)", raw, LogFormatJSON, LogFormatText)
	}
}
