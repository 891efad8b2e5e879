package desktop

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ReadLines turns each input line into an Item whose Exec is the raw line
// and whose Name is the line cleaned for display. Order is preserved.
func ReadLines(r io.Reader) ([]Item, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var items []Item
	for sc.Scan() {
		line := sc.Text()
		items = append(items, Item{Name: Clean(line), Exec: line})
	}
	return items, sc.Err()
}

// ansiRE matches CSI, OSC and two-byte escape sequences.
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;?]*[A-Za-z]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()][A-B0-2]` +
	`|` +
	`[#()*+\-./][A-Za-z0-9]` +
	`)`)

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// ValidUTF8 replaces runs of invalid bytes with U+FFFD.
func ValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// Clean prepares untrusted text for display: escape sequences are removed,
// invalid UTF-8 is replaced and tabs become spaces. Other control
// characters are dropped.
func Clean(s string) string {
	s = ValidUTF8(StripANSI(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
