// Package diagnostic locates the first flagged error line in a diff artifact
// and extracts the structured error tag embedded in it.
package diagnostic

import (
	"bufio"
	"errors"
	"os"
	"regexp"
	"strings"
)

// MessageLimit is the total length budget of a truncated error message.
const MessageLimit = 45

const ellipsis = "..."

// ErrInvalidTag indicates a string that is not a well-formed error tag.
var ErrInvalidTag = errors.New("invalid error ID format")

var (
	tagPattern      = regexp.MustCompile(`\(([A-Z]{3,4}-\d+)\)`)
	validTagPattern = regexp.MustCompile(`^[A-Z]{3,4}-\d+$`)
)

// DefaultMaxLineSize bounds a single artifact line when Extractor.MaxLineSize
// is zero.
const DefaultMaxLineSize = 1024 * 1024

// Extractor scans diff artifacts. MaxLineSize bounds the length of a single
// line.
type Extractor struct {
	MaxLineSize int
}

// FirstErrorLine returns the first line of the artifact at path whose trimmed
// form starts with ">" and contains "ERROR". The returned line is trimmed.
// A missing or unreadable artifact yields no line.
func (e Extractor) FirstErrorLine(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	limit := e.MaxLineSize
	if limit <= 0 {
		limit = DefaultMaxLineSize
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, min(64*1024, limit)), limit)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") && strings.Contains(line, "ERROR") {
			return line, true
		}
	}
	return "", false
}

// FirstErrorLine scans path with the default line size limit.
func FirstErrorLine(path string) (string, bool) {
	return Extractor{}.FirstErrorLine(path)
}

// ExtractTag returns the first parenthesized tag such as "(TTM-004)" found
// anywhere in line, without the parentheses.
func ExtractTag(line string) (string, bool) {
	m := tagPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ValidTag reports whether s is exactly one error tag.
func ValidTag(s string) bool {
	return validTagPattern.MatchString(s)
}

// Validate returns ErrInvalidTag unless s is exactly one error tag.
func Validate(s string) error {
	if !ValidTag(s) {
		return ErrInvalidTag
	}
	return nil
}

// Truncate shortens line to at most limit characters, replacing the tail
// with "..." when it does not fit.
func Truncate(line string, limit int) string {
	runes := []rune(line)
	if len(runes) <= limit {
		return line
	}
	keep := max(limit-len(ellipsis), 0)
	return string(runes[:keep]) + ellipsis
}
