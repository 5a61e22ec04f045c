package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"pdfquiz/internal/quiz"
	"pdfquiz/internal/quizgen"
	"pdfquiz/internal/terminal"
)

var playCmd = &cobra.Command{
	Use:   "play [FILE.pdf]",
	Short: "Take a quiz generated from a PDF in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		n, _ := cmd.Flags().GetInt("num")
		video, _ := cmd.Flags().GetString("video")
		server, _ := cmd.Flags().GetString("server")
		noColor, _ := cmd.Flags().GetBool("no-color")

		text, err := readSource(ctx, args, video)
		if err != nil {
			return err
		}

		var gen quiz.Generator
		if server != "" {
			gen = quizgen.NewRemoteClient(server, &http.Client{Timeout: 2 * time.Minute})
		} else {
			local, err := newLocalGenerator(ctx, nil)
			if err != nil {
				return notConfiguredHint(err)
			}
			gen = local
		}

		var opts []quiz.Option
		if cfg.Quiz.StrictSubmit {
			opts = append(opts, quiz.WithStrictSubmit())
		}
		session := quiz.NewSession(opts...)

		fmt.Fprintf(cmd.OutOrStdout(), "Generating %d questions...\n", n)
		if err := session.Generate(ctx, gen, text, n); err != nil {
			return err
		}

		var playerOpts []terminal.Option
		if noColor {
			playerOpts = append(playerOpts, terminal.WithNoColor())
		}
		return terminal.New(cmd.InOrStdin(), cmd.OutOrStdout(), session, playerOpts...).Run(ctx)
	},
}

func init() {
	playCmd.Flags().IntP("num", "n", 5, "Number of questions")
	playCmd.Flags().String("video", "", "Generate from a YouTube video transcript instead of a PDF")
	playCmd.Flags().String("server", "", "Base URL of a pdfquiz server to generate questions with")
	playCmd.Flags().Bool("no-color", false, "Disable colored output")
}
