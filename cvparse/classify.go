// CLAUDE:SUMMARY Ordered first-match-wins pattern table mapping skill strings to categories.
package cvparse

import "regexp"

// categoryPatterns is an ordered dispatch table: patterns are tested in
// declared order and the first match wins, so the order is load-bearing
// (e.g. "JavaScript" must hit Programming Languages before Web Technologies).
// Implemented as a slice, not a map — map iteration order would break the
// contract.
var categoryPatterns = []struct {
	category Category
	re       *regexp.Regexp
}{
	{CategoryProgramming, regexp.MustCompile(`(?i)(\b(python|java|javascript|typescript|golang|go|ruby|php|swift|kotlin|rust|scala|perl|dart|haskell|elixir|c)\b|c\+\+|c#|\.net\b)`)},
	{CategoryWeb, regexp.MustCompile(`(?i)\b(html5?|css3?|sass|react|angular|vue|svelte|node(\.?js)?|express|next\.?js|django|flask|rails|spring|laravel|jquery|bootstrap|tailwind|rest(ful)?|graphql|webpack|vite)\b`)},
	{CategoryDatabases, regexp.MustCompile(`(?i)\b(sql|mysql|postgres(ql)?|mongo(db)?|redis|sqlite|oracle|cassandra|elasticsearch|dynamodb|mariadb|couchdb|neo4j)\b`)},
	{CategoryCloudDevOps, regexp.MustCompile(`(?i)(\b(aws|azure|gcp|google cloud|docker|kubernetes|k8s|terraform|jenkins|ansible|cloudformation|heroku|serverless|lambda|devops|prometheus|grafana)\b|ci/cd|\bcicd\b)`)},
	{CategoryTools, regexp.MustCompile(`(?i)\b(git(hub|lab)?|jira|confluence|linux|unix|bash|shell|vim|vs ?code|figma|postman|maven|gradle|selenium|jupyter|tableau|framework)\b`)},
	{CategorySoftSkills, regexp.MustCompile(`(?i)\b(leadership|communication|teamwork|team player|problem[ -]solving|management|collaboration|mentoring|agile|scrum|kanban|presentation|analytical|organis[ae]tion|organiz[ae]tion)\b`)},
}

// Classify maps a free-text qualification to a category tag.
// Pure function: same input always yields the same category.
// No match yields CategoryOther.
func Classify(s string) Category {
	for _, cp := range categoryPatterns {
		if cp.re.MatchString(s) {
			return cp.category
		}
	}
	return CategoryOther
}
