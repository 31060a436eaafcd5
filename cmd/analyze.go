package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexsight/clauselens/internal/legal"
	"github.com/lexsight/clauselens/internal/normalize"
)

var analyzeJSON bool

// analyzeReport is the structured output of the analyze command.
type analyzeReport struct {
	Category  legal.Category         `json:"category"`
	Clauses   []legal.DetectedClause `json:"clauses,omitempty"`
	Entities  legal.Entities         `json:"entities"`
	Structure legal.Structure        `json:"structure"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Extract clauses, entities, and structure from a document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		raw, err := readInput(path)
		if err != nil {
			return err
		}
		text := normalize.New().Normalize(raw)

		report := analyzeReport{
			Category:  legal.Categorize(text),
			Clauses:   legal.DetectClauses(text),
			Entities:  legal.ExtractEntities(text),
			Structure: legal.ExtractStructure(text),
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Printf("Category: %s\n\n", report.Category)
		for _, c := range report.Clauses {
			fmt.Printf("[%s/%s] %s\n", c.Type, c.Risk, c.Sentence)
		}
		if len(report.Entities.Amounts) > 0 {
			fmt.Printf("\nAmounts: %v\n", report.Entities.Amounts)
		}
		if len(report.Entities.Dates) > 0 {
			fmt.Printf("Dates: %v\n", report.Entities.Dates)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit the full report as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
