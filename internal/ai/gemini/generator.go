package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/project-recommender/internal/ai"
	"github.com/spigell/project-recommender/internal/utils"
)

// Defaults applied when a Config field is left zero.
const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultMaxRetries      = 3
	DefaultMaxOutputTokens = 300
	DefaultMaxLogLength    = 200

	retryBackoff  = 2 * time.Second
	maxRetryDelay = 30 * time.Second
)

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

// wait is swapped out in tests.
var wait = utils.WaitFor

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	return c.chats.Create(ctx, model, config, history)
}

// Config tunes a Generator. Zero values fall back to defaults.
type Config struct {
	APIKey          string
	Model           string
	MaxRetries      int
	MaxOutputTokens int
	MaxLogLength    int
}

// Generator wraps the Google GenAI chat API with retries and logging.
type Generator struct {
	chats           chatCreator
	model           string
	maxRetries      int
	maxOutputTokens int32
	maxLogLen       int
	logger          *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg Config, logger *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(genaiChats{chats: client.Chats}, cfg, logger), nil
}

func newGenerator(chats chatCreator, cfg Config, logger *zap.Logger) *Generator {
	g := &Generator{
		chats:           chats,
		model:           strings.TrimSpace(cfg.Model),
		maxRetries:      cfg.MaxRetries,
		maxOutputTokens: int32(cfg.MaxOutputTokens),
		maxLogLen:       cfg.MaxLogLength,
		logger:          logger,
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.maxRetries <= 0 {
		g.maxRetries = DefaultMaxRetries
	}
	if g.maxOutputTokens <= 0 {
		g.maxOutputTokens = DefaultMaxOutputTokens
	}
	if g.maxLogLen <= 0 {
		g.maxLogLen = DefaultMaxLogLength
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g
}

// Model returns the model used for generation.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// Generate sends message after the given history and returns the reply text.
// Temporary API failures are retried up to the configured number of attempts.
func (g *Generator) Generate(ctx context.Context, system string, history []ai.Message, message string) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	config := &genai.GenerateContentConfig{MaxOutputTokens: g.maxOutputTokens}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents, err := toContents(history)
	if err != nil {
		return "", err
	}

	g.logger.Debug("gemini chat request",
		zap.Int("history", len(contents)),
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, g.maxLogLen)),
	)

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		output, err := g.send(ctx, config, contents, message)
		if err == nil {
			g.logger.Debug("gemini chat response",
				zap.Int("attempt", attempt),
				zap.Int("response_length", utf8.RuneCountInString(output)),
				zap.String("response_preview", utils.TruncateForLog(output, g.maxLogLen)),
			)
			return output, nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == g.maxRetries {
			break
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func (g *Generator) send(ctx context.Context, config *genai.GenerateContentConfig, history []*genai.Content, message string) (string, error) {
	chat, err := g.chats.Create(ctx, g.model, config, history)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}

	return responseText(resp)
}

func toContents(history []ai.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(history))
	for idx, msg := range history {
		var role genai.Role
		switch msg.Role {
		case ai.RoleUser:
			role = genai.RoleUser
		case ai.RoleAssistant:
			role = genai.RoleModel
		default:
			return nil, fmt.Errorf("message %d: unsupported role %q", idx, msg.Role)
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned no response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

// retryDelay reports whether err is worth retrying and how long to wait.
// Quota errors asking for a long pause are not retried.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	if apiErr.Code != http.StatusTooManyRequests && apiErr.Code < http.StatusInternalServerError {
		return 0, false
	}

	delay := time.Duration(attempt) * retryBackoff
	if match := retryAfterPattern.FindStringSubmatch(apiErr.Message); match != nil {
		if seconds, err := strconv.ParseFloat(match[1], 64); err == nil {
			delay = time.Duration(seconds * float64(time.Second))
		}
	}

	if delay > maxRetryDelay {
		return delay, false
	}
	return delay, true
}
