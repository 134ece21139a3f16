//go:build windows
// +build windows

package colors

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

var enabled bool

// EnableColor will query the console mode of stdout and turn on ANSI coloring if virtual terminal processing is
// available, attempting to enable it if it is not.
func EnableColor() {
	handle := windows.Handle(os.Stdout.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		enabled = false
		return
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		enabled = true
		return
	}
	enabled = windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}

// DisableColor turns off ANSI coloring.
func DisableColor() {
	enabled = false
}

// Enabled returns whether colorized output is currently enabled.
func Enabled() bool {
	return enabled
}

// Colorize returns the string s wrapped in ANSI code c assuming that ANSI is supported on the Windows version
// Source: https://github.com/rs/zerolog/blob/4fff5db29c3403bc26dee9895e12a108aacc0203/console.go
func Colorize(s any, c Color) string {
	// If ANSI is not supported then just return the original string
	if !enabled {
		return fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
