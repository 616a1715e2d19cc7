package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/spf13/cobra"
)

func newParseCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Split assistant output into title, ingredients and steps",
		Long: "Reads generated recipe text from a file, or stdin when the file is \"-\" or omitted,\n" +
			"and shows the fields the assistant would prefill.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"config": "skip"},
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			parsed := recipe.ParseGeneratedRecipe(text)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{
					"title":       parsed.Title,
					"ingredients": parsed.Ingredients,
					"steps":       parsed.Steps,
				})
			}

			rows := [][]string{
				{"Title", parsed.Title},
				{"Ingredients", parsed.Ingredients},
				{"Steps", parsed.Steps},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
