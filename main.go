package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/spigell/project-recommender/cmd"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := cmd.Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(cmd.ExitCode(err))
	}
}
