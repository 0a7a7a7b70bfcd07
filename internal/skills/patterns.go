package skills

import "regexp"

// techPatterns catch common spellings of technologies. Matches are kept only
// when they appear in the vocabulary.
var techPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:react|vue|angular)(?:js|\.js)?\b`),
	regexp.MustCompile(`\b(?:node|express)(?:js|\.js)?\b`),
	regexp.MustCompile(`\b(?:mongo|mysql|postgres|sqlite)(?:db)?\b`),
	regexp.MustCompile(`\b(?:python|java|javascript|kotlin|swift)\b`),
	regexp.MustCompile(`\b(?:html|css|php|ruby|dart)\d*\b`),
	regexp.MustCompile(`\b(?:api|rest|graphql|jwt|oauth)\b`),
	regexp.MustCompile(`\b(?:aws|azure|gcp|docker|kubernetes)\b`),
}
