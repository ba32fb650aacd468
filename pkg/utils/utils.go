package utils

import (
	"log"
	"runtime/debug"
	"strings"
)

// GoSafe runs fn in a goroutine and recovers from panics so a single bad
// handler cannot take down the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// SplitCommaList strips all whitespace from s and splits it on commas,
// dropping empty elements.
func SplitCommaList(s string) []string {
	stripped := strings.Join(strings.Fields(s), "")
	if stripped == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(stripped, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
