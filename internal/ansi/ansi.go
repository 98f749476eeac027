// Package ansi provides ANSI escape code constants for terminal output.
package ansi

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Yellow = "\033[33m"
	Green  = "\033[32m"
	Red    = "\033[31m"
	Cyan   = "\033[36m"
)

// Wrap surrounds s with the given codes and a reset. When enabled is false s
// is returned unchanged, which keeps piped output free of escape codes.
func Wrap(enabled bool, s string, codes ...string) string {
	if !enabled || len(codes) == 0 {
		return s
	}
	var prefix string
	for _, c := range codes {
		prefix += c
	}
	return prefix + s + Reset
}
