package main

import (
	"github.com/spf13/cobra"

	"github.com/banshee-data/presence.report/internal/config"
	"github.com/banshee-data/presence.report/internal/monitoring"
	"github.com/banshee-data/presence.report/internal/version"
)

type rootFlags struct {
	envFile string
	quiet   bool
	debug   bool
}

// app is shared by every subcommand once the root pre-run has loaded the
// environment.
type app struct {
	flags rootFlags
	env   config.Environment
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "WiFi CSI presence detection",
		Long: "presence loads CSI captures from an ESP32 receiver, extracts motion\n" +
			"features and classifies each capture against an empty-room baseline.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case a.flags.quiet:
				monitoring.SetLogger(nil)
			case a.flags.debug:
				monitoring.SetDebug(true)
			}
			a.env = config.LoadEnvironment(a.flags.envFile)
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.flags.envFile, "env-file", ".env", "Optional dotenv file with PRESENCE_* defaults")
	f.BoolVarP(&a.flags.quiet, "quiet", "q", false, "Suppress diagnostic logging")
	f.BoolVar(&a.flags.debug, "debug", false, "Enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("quiet", "debug")

	cmd.AddCommand(
		newAnalyzeCmd(a),
		newPlotCmd(a),
		newCaptureCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
