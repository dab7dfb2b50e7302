package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"yt2tutorial/config"
	"yt2tutorial/generator"
	"yt2tutorial/render"
)

func generateCmd() *cobra.Command {
	var (
		outPath string
		asHTML  bool
	)
	cmd := &cobra.Command{
		Use:   "generate <youtube-url>",
		Short: "Generate a tutorial for one video and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(os.Stderr)
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			bar := progressbar.NewOptions(100,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetWidth(30),
				progressbar.OptionShowDescription(),
				progressbar.OptionClearOnFinish(),
			)
			obs := generator.ObserverFunc(func(p generator.Progress) {
				bar.Describe(p.Label)
				_ = bar.Set(p.Percent)
			})

			t, err := a.pipeline.Run(cmd.Context(), args[0], obs)
			_ = bar.Finish()
			if err != nil {
				return err
			}
			if t.Fallback {
				color.New(color.FgYellow).Fprintln(os.Stderr, "sections were too thin; used whole-document generation")
			}

			out := t.Markdown
			if asHTML {
				if out, err = render.Page(t.Markdown); err != nil {
					return err
				}
			}
			if outPath == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(os.Stderr, "wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the tutorial to this file instead of stdout")
	cmd.Flags().BoolVar(&asHTML, "html", false, "write a standalone HTML page instead of Markdown")
	return cmd
}
