package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/project-recommender/internal/ai"
	"github.com/spigell/project-recommender/internal/filtering"
	"github.com/spigell/project-recommender/internal/pipeline"
)

// pickFirst makes a scripted choice select the first offered item.
const pickFirst = ""

type scriptedPrompt struct {
	t       *testing.T
	choices []string
	answers []string
	picked  []string
}

func (s *scriptedPrompt) choose(label string, items []string) (string, error) {
	if len(s.choices) == 0 {
		return "", promptui.ErrInterrupt
	}
	next := s.choices[0]
	s.choices = s.choices[1:]

	if next == pickFirst {
		next = items[0]
	}
	assert.Contains(s.t, items, next, "prompt %q", label)
	s.picked = append(s.picked, next)
	return next, nil
}

func (s *scriptedPrompt) ask(string, string) (string, error) {
	if len(s.answers) == 0 {
		return "", promptui.ErrEOF
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	return next, nil
}

type fakeMentor struct {
	explanation string
	replies     []string
	errs        []error
	explained   []ai.MentorRequest
	chats       [][]ai.Message
}

func (f *fakeMentor) Explain(_ context.Context, req ai.MentorRequest) (string, error) {
	f.explained = append(f.explained, req)
	return f.explanation, nil
}

func (f *fakeMentor) Chat(_ context.Context, messages []ai.Message) (string, error) {
	turn := len(f.chats)
	f.chats = append(f.chats, append([]ai.Message(nil), messages...))
	if turn < len(f.errs) && f.errs[turn] != nil {
		return "", f.errs[turn]
	}
	return f.replies[turn], nil
}

func newTestSession(t *testing.T, config *Config, prompt *scriptedPrompt) (*session, *bytes.Buffer, *observer.ObservedLogs) {
	t.Helper()

	eng := newTestEngine(t, config)
	res, err := eng.pipeline.Run(context.Background(), pipeline.Input{SkillsCSV: "go, docker"}, 1)
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	out := &bytes.Buffer{}

	s := newSession(context.Background(), eng, res, out, zap.New(core))
	s.choose = prompt.choose
	s.ask = prompt.ask
	return s, out, logs
}

func TestSessionActions(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestSession(t, testConfig(t), &scriptedPrompt{t: t})

	assert.Equal(t, []string{PromptNextPage, PromptExplain, PromptExport, PromptReport, PromptToFile, PromptExit}, s.actions())

	s.page = 3
	assert.Equal(t, []string{PromptPreviousPage, PromptExplain, PromptExport, PromptReport, PromptToFile, PromptExit}, s.actions())

	s.engine.config.ExcludeFile = "done.json"
	assert.Contains(t, s.actions(), PromptMarkDone)
}

func TestSessionPaging(t *testing.T) {
	t.Parallel()

	prompt := &scriptedPrompt{t: t, choices: []string{PromptNextPage, PromptNextPage, PromptPreviousPage, PromptExit}}
	s, out, _ := newTestSession(t, testConfig(t), prompt)

	require.NoError(t, s.loop())
	assert.Equal(t, 2, s.page)
	assert.Contains(t, out.String(), "Page 1 of 3")
	assert.Contains(t, out.String(), "Page 3 of 3")
}

func TestSessionInterruptLeavesQuietly(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestSession(t, testConfig(t), &scriptedPrompt{t: t})
	require.NoError(t, s.loop())
}

func TestSessionMarkDone(t *testing.T) {
	t.Parallel()

	config := testConfig(t)
	config.ExcludeFile = filepath.Join(t.TempDir(), "done.json")

	prompt := &scriptedPrompt{t: t, choices: []string{PromptNextPage, PromptMarkDone, pickFirst, PromptExit}}
	s, out, logs := newTestSession(t, config, prompt)

	require.NoError(t, s.loop())

	done := prompt.picked[2]
	assert.Nil(t, s.recs.FindByName(done))
	assert.Equal(t, 4, s.recs.Len())
	assert.Equal(t, 2, s.page)
	assert.Contains(t, out.String(), "Page 2 of 2 (4 projects)")

	excluded, err := filtering.GetExcludedProjectsFromFile(config.ExcludeFile)
	require.NoError(t, err)
	assert.Equal(t, []string{done}, excluded.Names())
	assert.Equal(t, doneReason, excluded.Items[0].Reason)

	assert.Equal(t, 1, logs.FilterMessage("appended to exclude file").Len())
}

func TestSessionMarkDoneBack(t *testing.T) {
	t.Parallel()

	config := testConfig(t)
	config.ExcludeFile = filepath.Join(t.TempDir(), "done.json")

	prompt := &scriptedPrompt{t: t, choices: []string{PromptMarkDone, PromptBack, PromptExit}}
	s, _, _ := newTestSession(t, config, prompt)

	require.NoError(t, s.loop())
	assert.Equal(t, 5, s.recs.Len())

	_, err := os.Stat(config.ExcludeFile)
	assert.True(t, os.IsNotExist(err))
}

func TestSessionExplainWithoutMentor(t *testing.T) {
	t.Parallel()

	prompt := &scriptedPrompt{t: t, choices: []string{PromptExplain, pickFirst, string(ai.Beginner), PromptExit}}
	s, _, logs := newTestSession(t, testConfig(t), prompt)

	require.NoError(t, s.loop())
	assert.Equal(t, 1, logs.FilterMessage("skipping explanation").Len())
}

func TestSessionExplainAndChat(t *testing.T) {
	t.Parallel()

	prompt := &scriptedPrompt{
		t:       t,
		choices: []string{PromptExplain, pickFirst, string(ai.Intermediate), PromptExit},
		answers: []string{"Where do I start?", ""},
	}
	s, out, _ := newTestSession(t, testConfig(t), prompt)

	mentor := &fakeMentor{explanation: "Start with the router.", replies: []string{"Write a handler first."}}
	s.mentor = mentor

	require.NoError(t, s.loop())

	require.Len(t, mentor.explained, 1)
	req := mentor.explained[0]
	rec := s.recs.FindByName(prompt.picked[1])
	require.NotNil(t, rec)
	assert.Equal(t, ai.Intermediate, req.Level)
	assert.Equal(t, rec.MatchingSkills, req.MatchingSkills)
	assert.Equal(t, rec.MissingSkills, req.MissingSkills)

	require.Len(t, mentor.chats, 1)
	assert.Len(t, mentor.chats[0], 3)

	assert.Contains(t, out.String(), "Start with the router.")
	assert.Contains(t, out.String(), "Write a handler first.")
}

func TestSessionExportAndDump(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out")
	prompt := &scriptedPrompt{
		t:       t,
		choices: []string{PromptExport, PromptToFile, PromptReport, PromptExit},
		answers: []string{path},
	}
	s, _, logs := newTestSession(t, testConfig(t), prompt)

	require.NoError(t, s.loop())

	_, err := os.Stat(path + ".xlsx")
	require.NoError(t, err)

	dumped := logs.FilterMessage("dumping result to file").All()
	require.Len(t, dumped, 1)
	filename, ok := dumped[0].ContextMap()["filename"].(string)
	require.True(t, ok)
	t.Cleanup(func() { os.Remove(filename) })

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "API Gateway")

	assert.Equal(t, 1, logs.FilterMessage("exiting").Len())
}

func TestHandleActionUnknown(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestSession(t, testConfig(t), &scriptedPrompt{t: t})
	require.Error(t, s.handleAction("Fly away"))
}
