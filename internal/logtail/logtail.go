package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one parsed log record.
type Entry struct {
	Time    time.Time
	Level   string // DBG, INF, WRN or ERR
	Message string
	Attrs   string
	Raw     string
}

// Parse splits a line written by the logging package into its parts. Lines
// that do not look like records come back with only Raw and Message set.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Message: strings.TrimSpace(line)}

	fields := strings.SplitN(strings.TrimSpace(line), " ", 4)
	if len(fields) < 3 {
		return entry
	}
	ts, err := time.Parse(time.RFC3339, fields[0])
	if err != nil {
		return entry
	}
	level := normalizeLevel(fields[1])
	if level == "" {
		return entry
	}

	entry.Time = ts
	entry.Level = level
	entry.Message = fields[2]
	if len(fields) == 4 {
		entry.Attrs = strings.TrimSpace(fields[3])
	}
	return entry
}

// ParseLines parses each line with Parse.
func ParseLines(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, Parse(line))
	}
	return entries
}

// Attr returns the value of key in the entry's attributes, unquoting it if
// needed.
func (e Entry) Attr(key string) (string, bool) {
	rest := e.Attrs
	prefix := key + "="
	for rest != "" {
		idx := strings.Index(rest, prefix)
		if idx < 0 {
			return "", false
		}
		if idx > 0 && rest[idx-1] != ' ' {
			rest = rest[idx+len(prefix):]
			continue
		}
		value := rest[idx+len(prefix):]
		if strings.HasPrefix(value, `"`) {
			if end := closingQuote(value); end > 0 {
				return strings.ReplaceAll(value[1:end], `\"`, `"`), true
			}
			return strings.Trim(value, `"`), true
		}
		if end := strings.IndexByte(value, ' '); end >= 0 {
			value = value[:end]
		}
		return value, true
	}
	return "", false
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// tint prints levels as three letters, optionally with an offset such as
// "INF+2".
func normalizeLevel(s string) string {
	base := s
	if i := strings.IndexAny(s, "+-"); i > 0 {
		base = s[:i]
	}
	switch base {
	case "DBG", "INF", "WRN", "ERR":
		return base
	default:
		return ""
	}
}
