package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	answerContextPath string
	answerJSON        bool
)

var answerCmd = &cobra.Command{
	Use:   "answer [question]",
	Short: "Answer a question over a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		contextText, err := readInput(answerContextPath)
		if err != nil {
			return err
		}

		result, err := engine.AnswerQuestion(cmd.Context(), args[0], contextText)
		if err != nil {
			return err
		}

		if answerJSON {
			return json.NewEncoder(os.Stdout).Encode(result)
		}
		fmt.Printf("%s\n(model %s, confidence %.2f)\n", result.Answer, result.Model, result.Confidence)
		return nil
	},
}

func init() {
	answerCmd.Flags().StringVarP(&answerContextPath, "context", "c", "-", "document text file ('-' for stdin)")
	answerCmd.Flags().BoolVar(&answerJSON, "json", false, "emit the full result as JSON")
	rootCmd.AddCommand(answerCmd)
}
