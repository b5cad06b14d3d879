// CLAUDE:SUMMARY Line-scan state machine: section headers switch state, buffered lines flush per-section.
package cvparse

import (
	"regexp"
	"strings"
)

// section is the parser state: which labeled block the scan is inside.
type section int

const (
	sectionNone section = iota
	sectionEducation
	sectionQualifications
	sectionProjects
	sectionPersonal
)

// sectionHeaders is an ordered dispatch table of header patterns. Tested in
// declared order, first match wins. A slice, deliberately: the match order
// carries meaning, an unordered map would not.
var sectionHeaders = []struct {
	sec section
	re  *regexp.Regexp
}{
	{sectionEducation, regexp.MustCompile(`(?i)^\s*(education|academic background|academics|studies)\b`)},
	{sectionQualifications, regexp.MustCompile(`(?i)^\s*(qualifications?|skills?|technical skills|core competencies|expertise)\b`)},
	{sectionProjects, regexp.MustCompile(`(?i)^\s*(projects?|personal projects|academic projects|portfolio)\b`)},
	{sectionPersonal, regexp.MustCompile(`(?i)^\s*(personal (details|information|info)|contact( details| information| info)?|about me)\b`)},
}

// matchSectionHeader tests a line against the header table.
func matchSectionHeader(line string) (section, bool) {
	for _, h := range sectionHeaders {
		if h.re.MatchString(line) {
			return h.sec, true
		}
	}
	return sectionNone, false
}

// Parse segments résumé text into a Profile. Best-effort: a field the
// patterns cannot find stays empty, which is not an error. An empty input
// produces an empty Profile.
//
// The scan is a single pass over trimmed non-empty lines. A header line
// switches the current section (flushing the previous buffer) and never
// contributes content, even when it would also match a contact pattern.
// Every other line goes through the unconditional contact scan, and is
// additionally buffered when a section is open — a line can be both.
func Parse(text string) *Profile {
	p := &Profile{}

	cur := sectionNone
	var buf []string

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if sec, ok := matchSectionHeader(line); ok {
			p.flushSection(cur, buf)
			cur = sec
			buf = nil
			continue
		}

		p.scanPersonal(line)

		if cur != sectionNone {
			buf = append(buf, line)
		}
	}

	p.flushSection(cur, buf)
	return p
}
