// CLAUDE:SUMMARY Per-section flush rules: education grouping, qualification filtering, project assembly.
package cvparse

import (
	"regexp"
	"strings"
)

const educationSeparator = " - "

// maxEducationGroup caps how many lines form one education entry when no
// year marker closes the group earlier.
const maxEducationGroup = 3

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// techLineRe matches a "Technologies: Go, Docker" style line inside a
// projects section and captures the list part.
var techLineRe = regexp.MustCompile(`(?i)^(technologies|tech stack|technology stack|tools|stack|built with)\s*[:\-]\s*(.+)$`)

// bulletMarkers are stripped from the front of qualification lines.
var bulletMarkers = []string{"•", "-", "*", "★", "⚫"}

// flushSection turns the buffered lines of a completed section into profile
// entries. Invoked on every section switch and once at end of input.
func (p *Profile) flushSection(sec section, buf []string) {
	if len(buf) == 0 {
		return
	}
	switch sec {
	case sectionEducation:
		p.flushEducation(buf)
	case sectionQualifications:
		p.flushQualifications(buf)
	case sectionProjects:
		p.flushProjects(buf)
	case sectionPersonal:
		// No-op: contact fields are populated by the unconditional
		// per-line scan, not by section membership.
	}
}

// flushEducation groups lines into entries: up to maxEducationGroup lines,
// or fewer when a line contains a 4-digit year (end-of-entry marker).
// A trailing partial group is still flushed.
func (p *Profile) flushEducation(buf []string) {
	var group []string
	for _, line := range buf {
		group = append(group, line)
		if len(group) >= maxEducationGroup || yearRe.MatchString(line) {
			p.Education = append(p.Education, strings.Join(group, educationSeparator))
			group = nil
		}
	}
	if len(group) > 0 {
		p.Education = append(p.Education, strings.Join(group, educationSeparator))
	}
}

// flushQualifications strips bullet markers, drops single-character
// fragments, and classifies each survivor in order. No deduplication:
// a skill listed twice appears twice.
func (p *Profile) flushQualifications(buf []string) {
	for _, line := range buf {
		skill := stripBullets(line)
		if len(skill) < 2 {
			continue
		}
		p.Qualifications = append(p.Qualifications, Qualification{
			Skill:    skill,
			Category: Classify(skill),
		})
	}
}

// flushProjects assembles project entries: an uppercase-initial line under
// 100 chars starts a new entry, a technologies line sets the tech list, and
// anything else extends the current description. Only named entries survive.
func (p *Profile) flushProjects(buf []string) {
	var cur Project

	flush := func() {
		if cur.Name != "" {
			p.Projects = append(p.Projects, cur)
		}
		cur = Project{}
	}

	for _, line := range buf {
		// Technologies lines start with an uppercase letter too, so they
		// are matched before the new-entry heuristic.
		if m := techLineRe.FindStringSubmatch(line); m != nil {
			cur.Technologies = splitTechnologies(m[2])
			continue
		}

		if startsNewProject(line) {
			flush()
			cur.Name = line
			continue
		}

		if cur.Description == "" {
			cur.Description = line
		} else {
			cur.Description += " " + line
		}
	}
	flush()
}

func startsNewProject(line string) bool {
	if len(line) >= 100 {
		return false
	}
	r := rune(line[0])
	return r >= 'A' && r <= 'Z'
}

// splitTechnologies splits a technology list on comma, pipe, or semicolon.
func splitTechnologies(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == ';'
	})
	var out []string
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// stripBullets removes leading bullet markers and surrounding whitespace.
func stripBullets(line string) string {
	s := strings.TrimSpace(line)
	for changed := true; changed; {
		changed = false
		for _, marker := range bulletMarkers {
			if strings.HasPrefix(s, marker) {
				s = strings.TrimSpace(strings.TrimPrefix(s, marker))
				changed = true
			}
		}
	}
	return s
}
