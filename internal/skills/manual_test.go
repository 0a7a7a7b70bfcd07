package skills

import (
	"reflect"
	"testing"
)

func TestParseManualSkills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "trims and lowercases", input: "python, React, Docker ", want: []string{"python", "react", "docker"}},
		{name: "drops empties", input: " ,python,, ,", want: []string{"python"}},
		{name: "dedupes keeping first", input: "Go,rust,GO, Rust", want: []string{"go", "rust"}},
		{name: "keeps inner spaces", input: "machine learning, spring boot", want: []string{"machine learning", "spring boot"}},
		{name: "empty", input: "", want: []string{}},
		{name: "only commas", input: ",,,", want: []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseManualSkills(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseManualSkills(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}
