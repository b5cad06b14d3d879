// CLAUDE:SUMMARY Profile, PersonalInfo, Qualification, Project, and Category types for résumé parsing.
// Package cvparse segments résumé plain text into labeled sections and
// extracts a structured profile. It is a best-effort heuristic extractor,
// not an NLP system: pattern tables and line heuristics, nothing more.
package cvparse

// Category tags a qualification. The label set is a versioned contract —
// consumers persist these exact strings.
type Category string

const (
	CategoryProgramming Category = "Programming Languages"
	CategoryWeb         Category = "Web Technologies"
	CategoryDatabases   Category = "Databases"
	CategoryCloudDevOps Category = "Cloud & DevOps"
	CategoryTools       Category = "Tools & Frameworks"
	CategorySoftSkills  Category = "Soft Skills"
	CategoryOther       Category = "Other"
)

// PersonalInfo holds contact fields scraped from anywhere in the text.
// All fields optional; first match wins and is never overwritten.
type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Qualification is one skill line with its classified category.
type Qualification struct {
	Skill    string   `json:"skill"`
	Category Category `json:"category"`
}

// Project is one project entry from a projects section.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Profile is the structured output of résumé parsing.
// Immutable once produced: downstream delivery only reads it.
type Profile struct {
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Education      []string        `json:"education,omitempty"`
	Qualifications []Qualification `json:"qualifications,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
}
