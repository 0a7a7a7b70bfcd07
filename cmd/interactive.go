package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/project-recommender/internal/ai"
	"github.com/spigell/project-recommender/internal/export"
	"github.com/spigell/project-recommender/internal/filtering"
	"github.com/spigell/project-recommender/internal/pipeline"
	"github.com/spigell/project-recommender/internal/ranking"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"
)

const (
	PromptNextPage     = "Next page"
	PromptPreviousPage = "Previous page"
	PromptExplain      = "Explain a project"
	PromptMarkDone     = "Mark a project as done"
	PromptExport       = "Export to Excel"
	PromptReport       = "Report by matching skills"
	PromptToFile       = "Dump recommendations to file"
	PromptExit         = "Exit"
	PromptBack         = "back"

	defaultExportFile = "recommendations.xlsx"
	doneReason        = "marked as done"
)

var errExit = errors.New("exit requested")

// chooser picks one of items, asker reads a line of text. Both are promptui
// backed outside of tests.
type (
	chooser func(label string, items []string) (string, error)
	asker   func(label, def string) (string, error)
)

func promptChoose(label string, items []string) (string, error) {
	p := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}
	_, selected, err := p.Run()
	return selected, err
}

func promptAsk(label, def string) (string, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: def,
	}
	return p.Run()
}

// session is an interactive walk through one set of recommendations.
type session struct {
	ctx    context.Context
	engine *engine
	out    io.Writer
	logger *zap.Logger

	skills   []string
	recs     *ranking.Recommendations
	page     int
	pageSize int

	mentor ai.Mentor

	choose chooser
	ask    asker
}

func newSession(ctx context.Context, eng *engine, res *pipeline.Result, out io.Writer, log *zap.Logger) *session {
	return &session{
		ctx:      ctx,
		engine:   eng,
		out:      out,
		logger:   log,
		skills:   res.Skills,
		recs:     res.All,
		page:     res.Page,
		pageSize: res.PageSize,
		choose:   promptChoose,
		ask:      promptAsk,
	}
}

func (s *session) pages() int {
	return (s.recs.Len() + s.pageSize - 1) / s.pageSize
}

func (s *session) current() []*ranking.Recommendation {
	_, items, err := pipeline.Paginate(s.recs.Items, s.page, s.pageSize)
	if err != nil {
		return nil
	}
	return items
}

func (s *session) render() error {
	return writeResult(s.out, outputTable, &pipeline.Result{
		Skills:   s.skills,
		Total:    s.recs.Len(),
		Page:     s.page,
		PageSize: s.pageSize,
		Items:    s.current(),
		All:      s.recs,
	})
}

func (s *session) actions() []string {
	items := make([]string, 0, 8)
	if s.page < s.pages() {
		items = append(items, PromptNextPage)
	}
	if s.page > 1 {
		items = append(items, PromptPreviousPage)
	}
	if s.recs.Len() != 0 {
		items = append(items, PromptExplain)
		if s.engine.config.ExcludeFile != "" {
			items = append(items, PromptMarkDone)
		}
		items = append(items, PromptExport, PromptReport, PromptToFile)
	}
	return append(items, PromptExit)
}

func (s *session) loop() error {
	for {
		if err := s.render(); err != nil {
			return err
		}

		action, err := s.choose("What next?", s.actions())
		if err != nil {
			if isPromptAbort(err) {
				return nil
			}
			return err
		}

		if err := s.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func (s *session) handleAction(action string) error {
	switch action {
	case PromptNextPage:
		if s.page < s.pages() {
			s.page++
		}
		return nil
	case PromptPreviousPage:
		if s.page > 1 {
			s.page--
		}
		return nil
	case PromptExplain:
		return s.explain()
	case PromptMarkDone:
		return s.markDone()
	case PromptExport:
		path, err := s.ask("Excel file", defaultExportFile)
		if err != nil {
			return promptErr(err)
		}
		written, err := export.ToExcel(s.recs, s.skills, strings.TrimSpace(path))
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		s.logger.Info("exported recommendations", zap.String("filename", written))
		return nil
	case PromptReport:
		pretty, _ := json.MarshalIndent(s.recs.ReportByMatch(), "", "  ")
		s.logger.Info(string(pretty), zap.Int("projects count", s.recs.Len()))
		return nil
	case PromptToFile:
		filename, err := s.recs.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// pickProject asks for one project of the current page. A nil result means back.
func (s *session) pickProject(label string) (*ranking.Recommendation, error) {
	page := s.current()
	items := make([]string, 0, len(page)+1)
	for _, rec := range page {
		items = append(items, rec.ProjectName)
	}

	selected, err := s.choose(label, append(items, PromptBack))
	if err != nil {
		return nil, promptErr(err)
	}
	if selected == PromptBack {
		return nil, nil
	}

	rec := s.recs.FindByName(selected)
	if rec == nil {
		return nil, fmt.Errorf("there is no such project %q", selected)
	}
	return rec, nil
}

func (s *session) markDone() error {
	rec, err := s.pickProject("Choose a finished project and press ENTER")
	if err != nil || rec == nil {
		return err
	}

	excludeFile := s.engine.config.ExcludeFile
	if err := filtering.AppendToFile(excludeFile, filtering.NewExcludedProjects(doneReason, rec)); err != nil {
		return err
	}

	s.recs.Exclude([]string{rec.ProjectName})
	if pages := s.pages(); s.page > pages && pages > 0 {
		s.page = pages
	}

	s.logger.Info("appended to exclude file",
		zap.String("filename", excludeFile),
		zap.String("project", rec.ProjectName),
	)
	return nil
}

func (s *session) explain() error {
	rec, err := s.pickProject("Choose a project to explain")
	if err != nil || rec == nil {
		return err
	}

	levels := make([]string, 0, len(ai.Levels))
	for _, level := range ai.Levels {
		levels = append(levels, string(level))
	}
	selected, err := s.choose("Your level", levels)
	if err != nil {
		return promptErr(err)
	}
	level, err := ai.ParseLevel(selected)
	if err != nil {
		return err
	}

	if s.mentor == nil {
		m, err := newMentor(s.ctx, s.engine.config.AI, s.logger)
		if err != nil {
			if errors.Is(err, errMentorDisabled) {
				s.logger.Warn("skipping explanation", zap.Error(err), zap.String("hint", Hint(err)))
				return nil
			}
			return err
		}
		s.mentor = m
	}

	req := ai.MentorRequest{
		ProjectName:    rec.ProjectName,
		Level:          level,
		MatchingSkills: rec.MatchingSkills,
		MissingSkills:  rec.MissingSkills,
	}

	history, err := explainProject(s.ctx, s.mentor, req, s.out)
	if err != nil {
		s.logger.Warn("explanation failed", zap.String("project", rec.ProjectName), zap.Error(err))
		return nil
	}

	return chat(s.ctx, s.mentor, history, s.ask, s.out, s.logger)
}

func isPromptAbort(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort)
}

// promptErr turns an aborted prompt into a request to leave the loop.
func promptErr(err error) error {
	if isPromptAbort(err) {
		return errExit
	}
	return err
}
