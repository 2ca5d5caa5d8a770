package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/banshee-data/presence.report/internal/config"
	"github.com/banshee-data/presence.report/internal/csi/pipeline"
	"github.com/banshee-data/presence.report/internal/db"
	"github.com/banshee-data/presence.report/internal/monitoring"
	"github.com/banshee-data/presence.report/internal/notify"
	"github.com/banshee-data/presence.report/internal/report"
)

type analyzeFlags struct {
	batchFlags
	markdown     bool
	cards        bool
	dbPath       string
	mqttBroker   string
	mqttTopic    string
	mqttClientID string
	mqttTimeout  time.Duration
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var fl analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze [name=path ...]",
		Short: "Classify CSI captures against an empty-room baseline",
		Example: `  presence analyze "Empty Room=data/empty.txt" "Walking=data/walk.txt" --baseline "Empty Room"
  presence analyze --manifest scenes.yaml --markdown`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, a, &fl, args)
		},
	}
	fl.register(cmd)
	f := cmd.Flags()
	f.BoolVar(&fl.markdown, "markdown", false, "Render the summary as a Markdown table")
	f.BoolVar(&fl.cards, "cards", false, "Print one result card per scenario instead of a table")
	f.StringVar(&fl.dbPath, "db", "", "Archive the run in this sqlite file (default $PRESENCE_DB)")
	f.StringVar(&fl.mqttBroker, "mqtt-broker", "", "Publish results to this MQTT broker, e.g. tcp://localhost:1883 (default $PRESENCE_MQTT_BROKER)")
	f.StringVar(&fl.mqttTopic, "mqtt-topic", "", "Topic template; {dataset} becomes the dataset slug (default $PRESENCE_MQTT_TOPIC)")
	f.StringVar(&fl.mqttClientID, "mqtt-client-id", "", "MQTT client id (default $PRESENCE_MQTT_CLIENT_ID)")
	f.DurationVar(&fl.mqttTimeout, "mqtt-timeout", 5*time.Second, "Wait this long for each publish acknowledgement")
	cmd.MarkFlagsMutuallyExclusive("markdown", "cards")
	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, fl *analyzeFlags, args []string) error {
	b, err := fl.resolve(cmd, a.env, args)
	if err != nil {
		return err
	}
	_, evals, err := b.evaluate(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeResults(out, evals, fl); err != nil {
		return err
	}

	runID := ""
	if path := firstNonEmpty(fl.dbPath, a.env.DBPath); path != "" {
		if runID, err = archiveRun(path, b, evals); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nArchived run %s in %s\n", runID, path)
	}

	if broker := firstNonEmpty(fl.mqttBroker, a.env.MQTTBroker); broker != "" {
		cfg := notify.ClientConfig{
			Broker:   broker,
			ClientID: firstNonEmpty(fl.mqttClientID, a.env.MQTTClientID, config.DefaultMQTTClientID),
		}
		topic := firstNonEmpty(fl.mqttTopic, a.env.MQTTTopic, config.DefaultMQTTTopic)
		if err := publishResults(cmd.Context(), cfg, topic, fl.mqttTimeout, runID, evals); err != nil {
			return err
		}
	}
	return nil
}

func writeResults(out io.Writer, evals []pipeline.Evaluation, fl *analyzeFlags) error {
	if fl.cards {
		return report.WriteCards(out, evals)
	}
	mode := report.ASCII
	if fl.markdown {
		mode = report.Markdown
	}
	_, err := fmt.Fprintln(out, report.Summary(evals, mode))
	return err
}

func archiveRun(path string, b *batch, evals []pipeline.Evaluation) (string, error) {
	store, err := db.NewDB(path)
	if err != nil {
		return "", fmt.Errorf("failed to open run archive: %w", err)
	}
	defer store.Close()

	id, err := store.RecordRun(db.NewRun(b.baseline, b.configJSON(), evals))
	if err != nil {
		return "", err
	}
	monitoring.Logf("archived run %s (%d datasets)", id, len(evals))
	return id, nil
}

func publishResults(ctx context.Context, cfg notify.ClientConfig, topic string, timeout time.Duration, runID string, evals []pipeline.Evaluation) error {
	client, err := notify.NewMQTTClient(cfg)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	return notify.NewNotifier(client, topic, timeout).Publish(ctx, runID, evals)
}
