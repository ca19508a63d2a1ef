// errors.go: user-facing error wrapping and caret-snippet rendering.
//
// WrapErrorWithSource turns a *ParseError into a readable multi-line snippet
// with a caret pointing at the offending column:
//
//	PARSE ERROR at 3:12: Expected ';' after expression. Found: RBRACE
//
//	   2 | if (x > 0) {
//	   3 | x = x * 10 }
//	     |            ^
//	   4 | println(x);
//
// The snippet shows up to one line of context before and after, numbers the
// lines, and places the caret under the 1-based column. Runtime errors carry
// no position and pass through unchanged, as does every other error kind.
// Line/column are clamped to the source bounds so rendering never fails.
package idzeykl

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource returns err augmented with a caret-annotated snippet of
// src when err is a *ParseError; any other error is returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	if e, ok := err.(*ParseError); ok {
		return fmt.Errorf("%s", prettyErrorString(src, "PARSE ERROR", e.Line, e.Col, e.Msg))
	}
	return err
}

// prettyErrorString builds the snippet with a header and a caret. Coordinates
// are 1-based and clamped to the source bounds.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
