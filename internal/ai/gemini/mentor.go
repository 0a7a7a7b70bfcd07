package gemini

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/project-recommender/internal/ai"
	"github.com/spigell/project-recommender/internal/logger"
)

const providerName = "gemini"

const mentorInstruction = "You are an expert AI project mentor. Keep answers practical and focused on the project the user selected."

type generator interface {
	Generate(ctx context.Context, system string, history []ai.Message, message string) (string, error)
	Model() string
}

// Mentor implements ai.Mentor on top of a Gemini generator.
type Mentor struct {
	generator generator
	logger    *zap.Logger
}

var _ ai.Mentor = (*Mentor)(nil)

func NewMentor(g generator, log *zap.Logger) *Mentor {
	return &Mentor{
		generator: g,
		logger:    logger.WithCommonFields(log, providerName, g.Model()),
	}
}

func (m *Mentor) Explain(ctx context.Context, req ai.MentorRequest) (string, error) {
	prompt, err := ai.BuildInitialPrompt(req)
	if err != nil {
		return "", err
	}

	m.logger.Info("requesting project explanation",
		zap.String("project", req.ProjectName),
		zap.String("level", string(req.Level)),
	)

	return m.generator.Generate(ctx, mentorInstruction, nil, prompt)
}

func (m *Mentor) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("conversation is empty")
	}

	last := messages[len(messages)-1]
	if last.Role != ai.RoleUser {
		return "", errors.New("last message must come from the user")
	}
	if strings.TrimSpace(last.Content) == "" {
		return "", errors.New("last message is empty")
	}

	m.logger.Debug("continuing mentor chat", zap.Int("turns", len(messages)))

	return m.generator.Generate(ctx, mentorInstruction, messages[:len(messages)-1], last.Content)
}
