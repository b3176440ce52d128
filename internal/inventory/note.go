package inventory

import (
	"fmt"
	"regexp"
	"strconv"
)

// noteRe matches the canonical location note "{locationTag}p{position}".
// The tag match is greedy so a tag may itself contain "p" followed by
// digits; the final p-number pair wins.
var noteRe = regexp.MustCompile(`^(.+)p([0-9]+)$`)

// FormatNote encodes a location tag and position as a note string.
func FormatNote(tag string, position int) string {
	return fmt.Sprintf("%sp%d", tag, position)
}

// ParseNote decodes a location note. Malformed or empty notes parse to
// ("", 0, false) rather than failing.
func ParseNote(note string) (tag string, position int, ok bool) {
	m := noteRe.FindStringSubmatch(note)
	if m == nil {
		return "", 0, false
	}
	pos, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], pos, true
}
