package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/spigell/project-recommender/internal/catalog"
	"github.com/spigell/project-recommender/internal/pipeline"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "project-recommender"

	envPrefix = "RECOMMENDER"

	exitFailure    = 1
	exitEmptyInput = 2
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "project-recommender matches your skills against a catalog of projects and suggests what to build next",
		// Errors are reported once by main with the proper exit code.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var empty *pipeline.EmptyInputError
	if errors.As(err, &empty) {
		return exitEmptyInput
	}

	return exitFailure
}

// Hint returns a user facing hint for well known errors.
func Hint(err error) string {
	var dataset *catalog.DatasetError

	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		return "no skills found: pass --skills or a resume with recognizable technologies"
	case errors.Is(err, catalog.ErrProjectNotFound):
		return "project names must match the catalog exactly, see the recommend output"
	case errors.As(err, &dataset):
		return "check the dataset path (--dataset or 'dataset' in the config file)"
	case errors.Is(err, errMentorDisabled):
		return "set ai.enabled to true and configure ai.gemini in the config file"
	default:
		return ""
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is project-recommender.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("dataset", "", "a CSV or XLSX file with the project catalog")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("dataset", rootCmd.PersistentFlags().Lookup("dataset"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Without an explicit --config the file is optional. A broken file is fatal either way.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}
