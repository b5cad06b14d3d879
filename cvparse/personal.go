// CLAUDE:SUMMARY Unconditional per-line contact-info extraction (email, phone, linkedin, website, address, name).
package cvparse

import (
	"regexp"
	"strings"
)

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	linkedinRe = regexp.MustCompile(`(?i)(https?://)?(www\.)?linkedin\.com/\S+`)
	websiteRe  = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+)`)
	addressRe  = regexp.MustCompile(`(?i)\d+\s+[A-Za-z0-9 .,\-]*(street|st\.|avenue|ave\.?|road|rd\.?|lane|ln\.?|drive|dr\.?|boulevard|blvd\.?)`)
	nameRe     = regexp.MustCompile(`^[A-Za-z]+( [A-Za-z]+)*$`)
)

// scanPersonal applies the contact patterns to one content line.
// Contact data frequently appears outside any labeled block, so the scan is
// unconditional — every non-header line goes through it. First match per
// field wins; later matches for an already-set field are ignored.
func (p *Profile) scanPersonal(line string) {
	pi := &p.PersonalInfo

	if pi.Email == "" {
		if m := emailRe.FindString(line); m != "" {
			pi.Email = m
		}
	}
	if pi.Phone == "" {
		if m := phoneRe.FindString(line); m != "" {
			pi.Phone = strings.TrimSpace(m)
		}
	}
	if pi.LinkedIn == "" {
		if m := linkedinRe.FindString(line); m != "" {
			pi.LinkedIn = m
		}
	}
	if pi.Website == "" {
		if m := websiteRe.FindString(line); m != "" {
			// A linkedin URL is not a personal website — avoid double counting.
			if !strings.Contains(strings.ToLower(m), "linkedin") {
				pi.Website = m
			}
		}
	}
	if pi.Address == "" {
		if m := addressRe.FindString(line); m != "" {
			pi.Address = m
		}
	}
	if pi.Name == "" && isNameShaped(line) {
		pi.Name = line
	}
}

// isNameShaped reports whether a line looks like a person's name:
// letters and spaces only, length 2-50, at most 3 whitespace-separated tokens.
func isNameShaped(line string) bool {
	if len(line) < 2 || len(line) > 50 {
		return false
	}
	if len(strings.Fields(line)) > 3 {
		return false
	}
	return nameRe.MatchString(line)
}
