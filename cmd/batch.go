package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spigell/project-recommender/internal/pipeline"
	"github.com/spigell/project-recommender/internal/ranking"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 4
	defaultTop         = 5
)

var batchCmd = &cobra.Command{
	Use:     "batch FILE...",
	Short:   "Recommend projects for several resumes at once",
	Example: `  project-recommender batch --top 3 alice.pdf bob.docx carol.txt`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return batch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("concurrency", "c", defaultConcurrency, "how many resumes to process at the same time")
	batchCmd.Flags().IntP("top", "n", defaultTop, "how many projects to show per resume")
	batchCmd.Flags().StringP("output", "o", outputTable, "output format: table or json")
}

// batchResult is the outcome for one resume. Err is set instead of Items when
// the resume could not be processed.
type batchResult struct {
	File   string                    `json:"file"`
	Skills []string                  `json:"skills,omitempty"`
	Items  []*ranking.Recommendation `json:"recommendations,omitempty"`
	Err    string                    `json:"error,omitempty"`
}

func batch(cmd *cobra.Command, files []string) error {
	flags := cmd.Flags()

	format, _ := flags.GetString("output")
	if err := checkOutputFormat(format); err != nil {
		return err
	}

	concurrency, _ := flags.GetInt("concurrency")
	top, _ := flags.GetInt("top")
	if concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
	}
	if top < 1 {
		return fmt.Errorf("top must be at least 1, got %d", top)
	}

	config, log, err := bootstrap()
	if err != nil {
		return err
	}

	eng, err := newEngine(config, log)
	if err != nil {
		return err
	}

	results, err := eng.batch(cmd.Context(), files, concurrency, top)
	if err != nil {
		return err
	}

	return writeBatch(cmd.OutOrStdout(), format, results)
}

// batch ranks every file with at most concurrency files in flight. Failures
// of single files are reported in their result, only cancellation aborts
// the whole run.
func (e *engine) batch(ctx context.Context, files []string, concurrency, top int) ([]*batchResult, error) {
	results := make([]*batchResult, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, file := range files {
		g.Go(func() error {
			res, err := e.rankFile(gCtx, file, top)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				res = &batchResult{File: file, Err: err.Error()}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (e *engine) rankFile(ctx context.Context, file string, top int) (*batchResult, error) {
	log := withRequest(e.logger).With(zap.String("file", file))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, err := e.input(file, "")
	if err != nil {
		log.Warn("reading resume failed", zap.Error(err))
		return nil, err
	}

	res, err := e.pipeline.Run(ctx, in, 1)
	if err != nil {
		log.Warn("ranking resume failed", zap.Error(err))
		return nil, err
	}

	_, items, err := pipeline.Paginate(res.All.Items, 1, top)
	if err != nil {
		return nil, err
	}

	log.Info("resume ranked", zap.Int("skills", len(res.Skills)), zap.Int("recommended", res.Total))

	return &batchResult{File: file, Skills: res.Skills, Items: items}, nil
}

func writeBatch(w io.Writer, format string, results []*batchResult) error {
	if format == outputJSON {
		return writeJSON(w, results)
	}

	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s\n", res.File)

		if res.Err != "" {
			fmt.Fprintf(w, "error: %s\n", res.Err)
			continue
		}

		fmt.Fprintf(w, "Your skills: %s\n", joinOrDash(res.Skills))
		if len(res.Items) == 0 {
			fmt.Fprintln(w, "No projects left to recommend.")
			continue
		}
		if err := writeTable(w, res.Items, 0); err != nil {
			return err
		}
	}
	return nil
}
