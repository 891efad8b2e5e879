// Package desktop builds the launcher's item index from freedesktop
// .desktop entries or from stdin lines.
package desktop

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/runger/grimoire/internal/icon"
)

// Item is one launchable entry.
type Item struct {
	Name     string
	Exec     string
	Comment  string
	Icon     string      // icon name or path from the entry
	Image    *icon.Image // resolved icon, nil when none
	Terminal bool
	ID       string // desktop file stem; empty for stdin records
}

// Entry is the parsed [Desktop Entry] section of one file.
type Entry struct {
	Name      string
	Exec      string // field codes already stripped
	Comment   string
	Icon      string
	Terminal  bool
	NoDisplay bool
	Hidden    bool
	Type      string
	TryExec   string
}

const sectionHeader = "[Desktop Entry]"

// Parse reads the first [Desktop Entry] section from r. ok is false when
// the entry should not be listed: hidden, NoDisplay, a Type other than
// Application, or missing Name or Exec. TryExec is parsed but not checked.
func Parse(r io.Reader) (e Entry, ok bool) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		inEntry          bool
		hasName, hasExec bool
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "[") {
			if inEntry {
				break
			}
			inEntry = line == sectionHeader
			continue
		}
		if !inEntry {
			continue
		}
		key, val, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		switch key {
		case "Name":
			e.Name, hasName = val, true
		case "Exec":
			e.Exec, hasExec = StripFieldCodes(val), true
		case "Comment":
			e.Comment = val
		case "Icon":
			e.Icon = val
		case "Terminal":
			e.Terminal = isTrue(val)
		case "NoDisplay":
			e.NoDisplay = isTrue(val)
		case "Hidden":
			e.Hidden = isTrue(val)
		case "TryExec":
			e.TryExec = val
		case "Type":
			e.Type = val
			if val != "Application" {
				return e, false
			}
		}
	}
	if e.NoDisplay || e.Hidden || !hasName || !hasExec {
		return e, false
	}
	return e, true
}

// ParseFile parses the desktop file at path. Unreadable files are not ok.
func ParseFile(path string) (Entry, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, false
	}
	defer f.Close()
	return Parse(f)
}

func isTrue(v string) bool {
	return strings.EqualFold(v, "true")
}

const fieldCodes = "fFuUdDnNickvm"

// StripFieldCodes removes %f, %U and the other Exec field codes, then trims
// surrounding whitespace. "%%" and unrecognized codes are left as they are.
func StripFieldCodes(exec string) string {
	var b strings.Builder
	b.Grow(len(exec))
	for i := 0; i < len(exec); i++ {
		c := exec[i]
		if c == '%' && i+1 < len(exec) {
			next := exec[i+1]
			if strings.IndexByte(fieldCodes, next) >= 0 {
				i++
				continue
			}
			if next == '%' {
				b.WriteString("%%")
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return strings.TrimSpace(b.String())
}
