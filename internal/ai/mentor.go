// Package ai defines the project mentor: an assistant that explains a
// recommended project at the user's level and answers follow-up questions.
package ai

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

// Level is the depth of explanation the user asked for.
type Level string

const (
	Beginner     Level = "Beginner"
	Intermediate Level = "Intermediate"
	Advanced     Level = "Advanced"
)

// Levels lists the supported levels from easiest to hardest.
var Levels = []Level{Beginner, Intermediate, Advanced}

// ParseLevel matches s case-insensitively against the supported levels.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	for _, level := range Levels {
		if strings.EqualFold(s, string(level)) {
			return level, nil
		}
	}
	return "", fmt.Errorf("unknown level %q (expected one of %s)", s, levelNames())
}

func levelNames() string {
	names := make([]string, 0, len(Levels))
	for _, level := range Levels {
		names = append(names, string(level))
	}
	return strings.Join(names, ", ")
}

// Roles used in a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a mentor conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MentorRequest describes the project to explain and how the user fits it.
type MentorRequest struct {
	ProjectName    string
	Level          Level
	MatchingSkills []string
	MissingSkills  []string
}

// Mentor explains projects and continues the conversation about them.
type Mentor interface {
	// Explain returns the opening explanation for req.
	Explain(ctx context.Context, req MentorRequest) (string, error)
	// Chat answers the last user message given the previous turns.
	Chat(ctx context.Context, messages []Message) (string, error)
}

//go:embed prompts/*.md
var prompts embed.FS

// BuildInitialPrompt renders the first user message for req.
func BuildInitialPrompt(req MentorRequest) (string, error) {
	if strings.TrimSpace(req.ProjectName) == "" {
		return "", fmt.Errorf("project name is required")
	}

	level, err := ParseLevel(string(req.Level))
	if err != nil {
		return "", err
	}

	instructions, err := prompts.ReadFile("prompts/" + strings.ToLower(string(level)) + ".md")
	if err != nil {
		return "", fmt.Errorf("loading %s prompt: %w", level, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert AI project mentor. The user selected a project titled '%s' and chose the '%s' difficulty level.\n", req.ProjectName, level)
	fmt.Fprintf(&b, "Their matching skills are: %s\n", strings.Join(req.MatchingSkills, ", "))
	fmt.Fprintf(&b, "Missing skills are: %s\n", strings.Join(req.MissingSkills, ", "))
	b.WriteString(strings.TrimSpace(string(instructions)))

	return b.String(), nil
}

// StartConversation returns the history after the opening explanation.
func StartConversation(prompt, explanation string) []Message {
	return []Message{
		{Role: RoleUser, Content: prompt},
		{Role: RoleAssistant, Content: explanation},
	}
}
