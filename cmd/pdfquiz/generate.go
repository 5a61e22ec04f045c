package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"pdfquiz/internal/models"
)

var generateCmd = &cobra.Command{
	Use:   "generate [FILE.pdf]",
	Short: "Print questions generated from a PDF as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		n, _ := cmd.Flags().GetInt("num")
		video, _ := cmd.Flags().GetString("video")

		text, err := readSource(ctx, args, video)
		if err != nil {
			return err
		}

		gen, err := newLocalGenerator(ctx, nil)
		if err != nil {
			return notConfiguredHint(err)
		}
		questions, err := gen.Generate(ctx, text, n)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(models.GenerateResponse{Questions: questions})
	},
}

func init() {
	generateCmd.Flags().IntP("num", "n", 5, "Number of questions")
	generateCmd.Flags().String("video", "", "Generate from a YouTube video transcript instead of a PDF")
}
