package cvparse

import (
	"strings"
	"testing"
)

func TestParse_EmptyDocument(t *testing.T) {
	// WHAT: Empty input produces an empty Profile, not an error.
	// WHY: Unsupported uploads arrive as empty text and must not crash.
	p := Parse("")
	if p == nil {
		t.Fatal("nil profile")
	}
	if len(p.Education) != 0 || len(p.Qualifications) != 0 || len(p.Projects) != 0 {
		t.Errorf("expected empty sections, got %+v", p)
	}
	if p.PersonalInfo != (PersonalInfo{}) {
		t.Errorf("expected empty personal info, got %+v", p.PersonalInfo)
	}
}

func TestParse_NoSectionHeaders(t *testing.T) {
	// WHAT: Text without headers still yields contact info, nothing else.
	// WHY: Contact data appears anywhere; sections require explicit headers.
	text := strings.Join([]string{
		"Jane Doe",
		"jane@example.com",
		"+1 555 123 4567",
		"https://linkedin.com/in/janedoe",
		"https://janedoe.dev",
		"some random paragraph about career goals and aspirations",
	}, "\n")

	p := Parse(text)

	if p.PersonalInfo.Name != "Jane Doe" {
		t.Errorf("name: got %q", p.PersonalInfo.Name)
	}
	if p.PersonalInfo.Email != "jane@example.com" {
		t.Errorf("email: got %q", p.PersonalInfo.Email)
	}
	if p.PersonalInfo.Phone == "" {
		t.Error("phone not found")
	}
	if !strings.Contains(p.PersonalInfo.LinkedIn, "linkedin.com/in/janedoe") {
		t.Errorf("linkedin: got %q", p.PersonalInfo.LinkedIn)
	}
	if p.PersonalInfo.Website != "https://janedoe.dev" {
		t.Errorf("website: got %q", p.PersonalInfo.Website)
	}
	if len(p.Education) != 0 || len(p.Qualifications) != 0 || len(p.Projects) != 0 {
		t.Errorf("expected no section content, got %+v", p)
	}
}

func TestParse_FirstMatchWins(t *testing.T) {
	// WHAT: A second email never overwrites the first.
	// WHY: First-match-wins is the declared contract for contact fields.
	text := "first@example.com\nsecond@example.com"
	p := Parse(text)
	if p.PersonalInfo.Email != "first@example.com" {
		t.Errorf("email: got %q, want first match", p.PersonalInfo.Email)
	}
}

func TestParse_LinkedInNotWebsite(t *testing.T) {
	text := "https://www.linkedin.com/in/janedoe"
	p := Parse(text)
	if p.PersonalInfo.Website != "" {
		t.Errorf("linkedin URL counted as website: %q", p.PersonalInfo.Website)
	}
	if p.PersonalInfo.LinkedIn == "" {
		t.Error("linkedin not set")
	}
}

func TestParse_EducationGrouping(t *testing.T) {
	// WHAT: ["MIT", "BSc Computer Science", "2019"] → one grouped entry.
	// WHY: Year closes a group; the grouping rule is a stated property.
	text := "Education\nMIT\nBSc Computer Science\n2019"
	p := Parse(text)
	if len(p.Education) != 1 {
		t.Fatalf("expected 1 entry, got %d: %v", len(p.Education), p.Education)
	}
	if p.Education[0] != "MIT - BSc Computer Science - 2019" {
		t.Errorf("entry: got %q", p.Education[0])
	}
}

func TestParse_EducationYearClosesEarly(t *testing.T) {
	text := "Education\nMIT 2019\nStanford\nMSc AI\n2021"
	p := Parse(text)
	if len(p.Education) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(p.Education), p.Education)
	}
	if p.Education[0] != "MIT 2019" {
		t.Errorf("first entry: got %q", p.Education[0])
	}
	if p.Education[1] != "Stanford - MSc AI - 2021" {
		t.Errorf("second entry: got %q", p.Education[1])
	}
}

func TestParse_EducationTrailingPartialGroup(t *testing.T) {
	// A group not yet closed by the 3-line cap or a year is still flushed.
	text := "Education\nOxford\nBA Philosophy"
	p := Parse(text)
	if len(p.Education) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(p.Education))
	}
	if p.Education[0] != "Oxford - BA Philosophy" {
		t.Errorf("entry: got %q", p.Education[0])
	}
}

func TestParse_QualificationsFiltering(t *testing.T) {
	// WHAT: Bullets stripped, one-char fragments dropped, order preserved.
	// WHY: Stated property: ["• Python","Go","C++","a"] → Python, Go, C++.
	text := "Skills\n• Python\nGo\nC++\na"
	p := Parse(text)

	want := []string{"Python", "Go", "C++"}
	if len(p.Qualifications) != len(want) {
		t.Fatalf("expected %d qualifications, got %d: %+v", len(want), len(p.Qualifications), p.Qualifications)
	}
	for i, w := range want {
		if p.Qualifications[i].Skill != w {
			t.Errorf("qualification %d: got %q, want %q", i, p.Qualifications[i].Skill, w)
		}
	}
	if p.Qualifications[0].Category != CategoryProgramming {
		t.Errorf("Python category: got %q", p.Qualifications[0].Category)
	}
}

func TestParse_QualificationsNoDedup(t *testing.T) {
	text := "Skills\nPython\nPython"
	p := Parse(text)
	if len(p.Qualifications) != 2 {
		t.Errorf("expected duplicates preserved, got %d", len(p.Qualifications))
	}
}

func TestParse_Projects(t *testing.T) {
	text := strings.Join([]string{
		"Projects",
		"Inventory Tracker",
		"a warehouse inventory system",
		"with barcode scanning",
		"Technologies: Go, PostgreSQL, Docker",
		"Chat Server",
		"Technologies: Elixir | Phoenix",
	}, "\n")
	p := Parse(text)

	if len(p.Projects) != 2 {
		t.Fatalf("expected 2 projects, got %d: %+v", len(p.Projects), p.Projects)
	}

	first := p.Projects[0]
	if first.Name != "Inventory Tracker" {
		t.Errorf("name: got %q", first.Name)
	}
	if first.Description != "a warehouse inventory system with barcode scanning" {
		t.Errorf("description: got %q", first.Description)
	}
	if len(first.Technologies) != 3 || first.Technologies[0] != "Go" || first.Technologies[2] != "Docker" {
		t.Errorf("technologies: got %v", first.Technologies)
	}

	second := p.Projects[1]
	if second.Name != "Chat Server" {
		t.Errorf("second name: got %q", second.Name)
	}
	if len(second.Technologies) != 2 || second.Technologies[1] != "Phoenix" {
		t.Errorf("second technologies: got %v", second.Technologies)
	}
}

func TestParse_ProjectsUnnamedDropped(t *testing.T) {
	// Lines before any uppercase-initial name never form an entry.
	text := "Projects\nlowercase description without a project name"
	p := Parse(text)
	if len(p.Projects) != 0 {
		t.Errorf("expected no projects, got %+v", p.Projects)
	}
}

func TestParse_HeaderLineNeverContent(t *testing.T) {
	// WHAT: A header that also looks like contact data stays a header.
	// WHY: Header lines must never contribute to buffers or fields.
	text := "Skills\nEducation\nMIT\n2019"
	p := Parse(text)
	if len(p.Qualifications) != 0 {
		t.Errorf("header leaked into qualifications: %+v", p.Qualifications)
	}
	if len(p.Education) != 1 {
		t.Fatalf("expected 1 education entry, got %d", len(p.Education))
	}
	if strings.Contains(p.Education[0], "Education") {
		t.Errorf("header line in entry: %q", p.Education[0])
	}
}

func TestParse_ContactInsideProjectsBlock(t *testing.T) {
	// A line can be both section content and a contact match.
	text := "Projects\nSide Project\ncontact jane@example.com for a demo"
	p := Parse(text)
	if p.PersonalInfo.Email != "jane@example.com" {
		t.Errorf("email from inside section: got %q", p.PersonalInfo.Email)
	}
	if len(p.Projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(p.Projects))
	}
	if !strings.Contains(p.Projects[0].Description, "jane@example.com") {
		t.Errorf("line not buffered into section: %+v", p.Projects[0])
	}
}

func TestParse_SectionSwitchFlushes(t *testing.T) {
	text := "Education\nMIT\nSkills\nPython"
	p := Parse(text)
	if len(p.Education) != 1 || p.Education[0] != "MIT" {
		t.Errorf("education: got %v", p.Education)
	}
	if len(p.Qualifications) != 1 || p.Qualifications[0].Skill != "Python" {
		t.Errorf("qualifications: got %+v", p.Qualifications)
	}
}

func TestIsNameShaped(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Jane Doe", true},
		{"Jane", true},
		{"Jane Ann Doe", true},
		{"Jane Ann Doe Smith", false}, // 4 tokens
		{"jane@example.com", false},   // non-letters
		{"J", false},                  // too short
		{strings.Repeat("a", 51), false},
		{"Jane-Doe", false}, // hyphen not allowed by the heuristic
	}
	for _, tt := range tests {
		if got := isNameShaped(tt.line); got != tt.want {
			t.Errorf("isNameShaped(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
