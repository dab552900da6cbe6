// Package color maps symbolic color names to ANSI escape sequences and holds
// the small formatting helpers shared by every widget. Lookups are total:
// unknown names produce no styling rather than an error.
package color

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"
)

var foreground = map[string]string{
	"black":          "\033[30m",
	"red":            "\033[31m",
	"green":          "\033[32m",
	"yellow":         "\033[33m",
	"blue":           "\033[34m",
	"magenta":        "\033[35m",
	"cyan":           "\033[36m",
	"white":          "\033[37m",
	"gray":           "\033[90m",
	"grey":           "\033[90m",
	"bright_black":   "\033[90m",
	"bright_red":     "\033[91m",
	"bright_green":   "\033[92m",
	"bright_yellow":  "\033[93m",
	"bright_blue":    "\033[94m",
	"bright_magenta": "\033[95m",
	"bright_cyan":    "\033[96m",
	"bright_white":   "\033[97m",
	"orange":         "\033[38;5;208m",
	"purple":         "\033[38;5;141m",
	"pink":           "\033[38;5;211m",
}

var background = map[string]string{
	"black":   "\033[40m",
	"red":     "\033[41m",
	"green":   "\033[42m",
	"yellow":  "\033[43m",
	"blue":    "\033[44m",
	"magenta": "\033[45m",
	"cyan":    "\033[46m",
	"white":   "\033[47m",
	"gray":    "\033[100m",
	"grey":    "\033[100m",
}

// FG returns the foreground escape for name, or "" when unknown.
func FG(name string) string {
	return foreground[strings.ToLower(strings.TrimSpace(name))]
}

// BG returns the background escape for name, or "" when unknown.
func BG(name string) string {
	return background[strings.ToLower(strings.TrimSpace(name))]
}

// IsKnown reports whether name is a foreground color.
func IsKnown(name string) bool {
	return FG(name) != ""
}

// Names returns the foreground color names.
func Names() []string {
	names := make([]string, 0, len(foreground))
	for name := range foreground {
		names = append(names, name)
	}
	return names
}

// ParseBold interprets a textual bold flag: anything but "" and "false" is on.
func ParseBold(s string) bool {
	return s != "" && s != "false"
}

// Colorize wraps text in bold, foreground and background escapes. A reset is
// appended whenever at least one escape was emitted.
func Colorize(text, fg, bg string, bold bool) string {
	var b strings.Builder
	if bold {
		b.WriteString(Bold)
	}
	b.WriteString(FG(fg))
	b.WriteString(BG(bg))
	if b.Len() == 0 {
		return text
	}
	b.WriteString(text)
	b.WriteString(Reset)
	return b.String()
}

// Style is one theme color entry.
type Style struct {
	FG   string `json:"fg" yaml:"fg"`
	BG   string `json:"bg,omitempty" yaml:"bg,omitempty"`
	Bold bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
}

// UnmarshalJSON accepts bold as a boolean or as any other value read by
// ParseBold, so "bold": "true" in a hand-written theme still applies.
func (s *Style) UnmarshalJSON(data []byte) error {
	var raw struct {
		FG   string          `json:"fg"`
		BG   string          `json:"bg"`
		Bold json.RawMessage `json:"bold"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Style{FG: raw.FG, BG: raw.BG, Bold: boldValue(raw.Bold)}
	return nil
}

func boldValue(raw json.RawMessage) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return ParseBold(str)
	}
	return ParseBold(string(raw))
}

// Palette maps a widget category to its style.
type Palette map[string]Style

// ThemeColor styles text with palette[category]. Without a palette or an fg
// for the category, text comes back untouched.
func ThemeColor(category, text string, palette Palette) string {
	if palette == nil {
		return text
	}
	st, ok := palette[category]
	if !ok || st.FG == "" {
		return text
	}
	return Colorize(text, st.FG, st.BG, st.Bold)
}

// Strip removes every ANSI escape sequence from s.
func Strip(s string) string {
	return ansi.Strip(s)
}
