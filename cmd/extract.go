package cmd

import (
	"strings"

	"github.com/spigell/project-recommender/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the catalog skills found in a resume or a piece of text",
	Example: `  project-recommender extract --resume cv.docx
  project-recommender extract --text "Built REST APIs in Go with PostgreSQL"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return extract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("resume", "r", "", "a resume file (pdf, docx or txt)")
	extractCmd.Flags().StringP("text", "t", "", "free text to extract skills from")
	extractCmd.Flags().StringP("output", "o", outputTable, "output format: table or json")

	extractCmd.MarkFlagsOneRequired("resume", "text")
	extractCmd.MarkFlagsMutuallyExclusive("resume", "text")
}

func extract(cmd *cobra.Command) error {
	flags := cmd.Flags()

	format, _ := flags.GetString("output")
	if err := checkOutputFormat(format); err != nil {
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

	resumePath, _ := flags.GetString("resume")
	text, _ := flags.GetString("text")

	if resumePath != "" {
		in, err := eng.input(resumePath, "")
		if err != nil {
			return err
		}
		text = in.Text
	}

	if strings.TrimSpace(text) == "" {
		return &pipeline.EmptyInputError{Source: "text"}
	}

	found := eng.extractor.Extract(text)
	withRequest(log).Info("skills extracted", zap.Int("count", len(found)))

	return writeSkills(cmd.OutOrStdout(), format, found)
}
