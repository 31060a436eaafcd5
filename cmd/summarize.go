package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var summarizeJSON bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Generate a summary of a document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		text, err := readInput(path)
		if err != nil {
			return err
		}

		result, err := engine.GenerateSummary(cmd.Context(), text)
		if err != nil {
			return err
		}

		if summarizeJSON {
			return json.NewEncoder(os.Stdout).Encode(result)
		}
		fmt.Println(result.Summary)
		if result.Extractive {
			fmt.Fprintln(os.Stderr, "note: generative model unavailable, summary is extractive")
		}
		return nil
	},
}

func init() {
	summarizeCmd.Flags().BoolVar(&summarizeJSON, "json", false, "emit the full result as JSON")
	rootCmd.AddCommand(summarizeCmd)
}
