package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/project-recommender/internal/ai"
	"github.com/spigell/project-recommender/internal/ranking"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mentorCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Explain a project at your level and optionally chat about it",
	Example: `  project-recommender mentor --project "Weather Dashboard" --level beginner --skills "python"
  project-recommender mentor --project "Weather Dashboard" --resume cv.pdf --chat`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mentor(cmd)
	},
}

func init() {
	rootCmd.AddCommand(mentorCmd)

	mentorCmd.Flags().String("project", "", "project name from the catalog")
	mentorCmd.Flags().StringP("level", "l", string(ai.Beginner), "explanation level: beginner, intermediate or advanced")
	mentorCmd.Flags().StringP("skills", "s", "", "comma separated list of your skills")
	mentorCmd.Flags().StringP("resume", "r", "", "a resume file (pdf, docx or txt)")
	mentorCmd.Flags().Bool("chat", false, "keep asking the mentor follow-up questions")

	mentorCmd.MarkFlagRequired("project")
}

func mentor(cmd *cobra.Command) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	levelName, _ := flags.GetString("level")
	level, err := ai.ParseLevel(levelName)
	if err != nil {
		return err
	}

	config, log, err := bootstrap()
	if err != nil {
		return err
	}

	eng, err := newEngine(config, log)
	if err != nil {
		return err
	}

	project, _ := flags.GetString("project")
	resumePath, _ := flags.GetString("resume")
	skillsCSV, _ := flags.GetString("skills")

	req, err := eng.mentorRequest(strings.TrimSpace(project), level, resumePath, skillsCSV)
	if err != nil {
		return err
	}

	reqLog := withRequest(log)

	m, err := newMentor(ctx, config.AI, reqLog)
	if err != nil {
		return err
	}

	history, err := explainProject(ctx, m, req, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("explaining %q: %w", req.ProjectName, err)
	}

	if withChat, _ := flags.GetBool("chat"); withChat {
		return chat(ctx, m, history, promptAsk, cmd.OutOrStdout(), reqLog)
	}
	return nil
}

// mentorRequest describes project for the user. Without skills every project
// skill counts as missing.
func (e *engine) mentorRequest(project string, level ai.Level, resumePath, skillsCSV string) (ai.MentorRequest, error) {
	req := ai.MentorRequest{ProjectName: project, Level: level}

	projectSkills, err := e.catalog.ProjectSkills(project)
	if err != nil {
		return req, err
	}

	if resumePath == "" && strings.TrimSpace(skillsCSV) == "" {
		req.MissingSkills = projectSkills
		return req, nil
	}

	in, err := e.input(resumePath, skillsCSV)
	if err != nil {
		return req, err
	}
	userSkills, err := e.pipeline.ResolveSkills(in)
	if err != nil {
		return req, err
	}

	rec := ranking.NewRecommendations(e.ranker.Recommend(userSkills)).FindByName(project)
	if rec == nil {
		return req, fmt.Errorf("project %q was not ranked", project)
	}

	req.MatchingSkills = rec.MatchingSkills
	req.MissingSkills = rec.MissingSkills
	return req, nil
}

// explainProject prints the opening explanation and returns the conversation so far.
func explainProject(ctx context.Context, m ai.Mentor, req ai.MentorRequest, out io.Writer) ([]ai.Message, error) {
	prompt, err := ai.BuildInitialPrompt(req)
	if err != nil {
		return nil, err
	}

	explanation, err := m.Explain(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "\n%s (%s)\n\n%s\n\n", req.ProjectName, req.Level, explanation)
	return ai.StartConversation(prompt, explanation), nil
}

var chatExitWords = []string{"", "exit", "quit", "back"}

// chat runs follow-up turns until the user leaves. A failed turn is dropped
// from the history so the user can retry.
func chat(ctx context.Context, m ai.Mentor, history []ai.Message, ask asker, out io.Writer, log *zap.Logger) error {
	for {
		question, err := ask("Ask the mentor (empty to leave)", "")
		if err != nil {
			if isPromptAbort(err) {
				return nil
			}
			return err
		}

		question = strings.TrimSpace(question)
		if isChatExit(question) {
			return nil
		}

		history = append(history, ai.Message{Role: ai.RoleUser, Content: question})

		reply, err := m.Chat(ctx, history)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Warn("mentor chat failed", zap.Error(err))
			fmt.Fprintf(out, "Sorry, I could not answer that: %v\n", err)
			history = history[:len(history)-1]
			continue
		}

		history = append(history, ai.Message{Role: ai.RoleAssistant, Content: reply})
		fmt.Fprintf(out, "\n%s\n\n", reply)
	}
}

func isChatExit(question string) bool {
	for _, word := range chatExitWords {
		if strings.EqualFold(question, word) {
			return true
		}
	}
	return false
}
