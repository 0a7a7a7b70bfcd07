package cmd

import (
	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Print every skill known to the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("output")
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

		return writeSkills(cmd.OutOrStdout(), format, eng.catalog.Vocabulary())
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)

	skillsCmd.Flags().StringP("output", "o", outputTable, "output format: table or json")
}
