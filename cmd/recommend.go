package cmd

import (
	"fmt"

	"github.com/spigell/project-recommender/internal/export"
	"github.com/spigell/project-recommender/internal/pipeline"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend projects for your skills or resume",
	Example: `  project-recommender recommend --skills "python, react, docker"
  project-recommender recommend --resume cv.pdf --interactive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return recommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("skills", "s", "", "comma separated list of your skills")
	recommendCmd.Flags().StringP("resume", "r", "", "a resume file (pdf, docx or txt)")
	recommendCmd.Flags().IntP("page", "p", 1, "page of results to show")
	recommendCmd.Flags().Int("page-size", pipeline.DefaultPageSize, "projects per page")
	recommendCmd.Flags().BoolP("all", "a", false, "show every recommendation on one page")
	recommendCmd.Flags().StringP("output", "o", outputTable, "output format: table or json")
	recommendCmd.Flags().String("export", "", "also write all recommendations to this Excel file")
	recommendCmd.Flags().BoolP("interactive", "i", false, "browse results and act on them interactively")
	recommendCmd.Flags().StringP("exclude-file", "e", "", "special file with projects to exclude. Default is unset.")

	viper.BindPFlag("page-size", recommendCmd.Flags().Lookup("page-size"))
	viper.BindPFlag("exclude-file", recommendCmd.Flags().Lookup("exclude-file"))
}

// recommend is the main command for the cli.
func recommend(cmd *cobra.Command) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	format, _ := flags.GetString("output")
	if err := checkOutputFormat(format); err != nil {
		return err
	}

	config, log, err := bootstrap()
	if err != nil {
		return err
	}

	log.Info("starting the project-recommender", zap.String("version", version))

	eng, err := newEngine(config, log)
	if err != nil {
		return err
	}

	resumePath, _ := flags.GetString("resume")
	skillsCSV, _ := flags.GetString("skills")
	page, _ := flags.GetInt("page")
	all, _ := flags.GetBool("all")

	in, err := eng.input(resumePath, skillsCSV)
	if err != nil {
		return err
	}

	reqLog := withRequest(log)

	if all {
		page = 1
	}

	res, err := eng.pipeline.Run(ctx, in, page)
	if err != nil {
		return err
	}

	if all {
		res = wholeResult(res)
	}

	reqLog.Info("recommendations found",
		zap.Strings("skills", res.Skills),
		zap.Int("count", res.Total),
	)

	if exportPath, _ := flags.GetString("export"); exportPath != "" {
		written, err := export.ToExcel(res.All, res.Skills, exportPath)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		reqLog.Info("exported recommendations", zap.String("filename", written))
	}

	if interactive, _ := flags.GetBool("interactive"); interactive {
		s := newSession(ctx, eng, res, cmd.OutOrStdout(), reqLog)
		return s.loop()
	}

	return writeResult(cmd.OutOrStdout(), format, res)
}

// wholeResult turns res into a single page holding every recommendation.
func wholeResult(res *pipeline.Result) *pipeline.Result {
	pageSize := res.Total
	if pageSize == 0 {
		pageSize = res.PageSize
	}
	return &pipeline.Result{
		Skills:   res.Skills,
		Total:    res.Total,
		Page:     1,
		PageSize: pageSize,
		Items:    res.All.Items,
		All:      res.All,
	}
}
