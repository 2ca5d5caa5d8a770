package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/presence.report/internal/fsutil"
	"github.com/banshee-data/presence.report/internal/security"
	"github.com/banshee-data/presence.report/internal/visual"
)

type plotFlags struct {
	batchFlags
	outDir   string
	htmlPath string
}

func newPlotCmd(a *app) *cobra.Command {
	var fl plotFlags
	cmd := &cobra.Command{
		Use:   "plot [name=path ...]",
		Short: "Render energy, motion path and heatmap plots",
		Example: `  presence plot --manifest scenes.yaml --out plots --html plots/report.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, a, &fl, args)
		},
	}
	fl.register(cmd)
	f := cmd.Flags()
	f.StringVarP(&fl.outDir, "out", "o", "plots", "Directory for PNG output")
	f.StringVar(&fl.htmlPath, "html", "", "Also write an interactive HTML page to this file")
	return cmd
}

func runPlot(cmd *cobra.Command, a *app, fl *plotFlags, args []string) error {
	if err := security.ValidateOutputPath(fl.outDir); err != nil {
		return err
	}
	if fl.htmlPath != "" {
		if err := security.ValidateOutputPath(fl.htmlPath); err != nil {
			return err
		}
	}

	b, err := fl.resolve(cmd, a.env, args)
	if err != nil {
		return err
	}
	analyses, _, err := b.evaluate(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	written, err := visual.NewPlotter(fl.outDir).WriteAll(analyses)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintln(out, path)
	}

	if fl.htmlPath != "" {
		if err := visual.WriteHTML(fsutil.OSFileSystem{}, fl.htmlPath, analyses); err != nil {
			return err
		}
		fmt.Fprintln(out, fl.htmlPath)
	}
	return nil
}
