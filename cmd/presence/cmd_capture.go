package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/presence.report/internal/csi/l1capture"
	"github.com/banshee-data/presence.report/internal/monitoring"
	"github.com/banshee-data/presence.report/internal/security"
	"github.com/banshee-data/presence.report/internal/serialmux"
)

type captureFlags struct {
	port     string
	baud     int
	out      string
	marker   string
	duration time.Duration
	list     bool
}

// openSerial is replaced in tests.
var openSerial = func(path string, opts serialmux.PortOptions) (serialmux.SerialMuxInterface, error) {
	mux, err := serialmux.NewRealSerialMux(path, opts)
	if err != nil {
		return nil, err
	}
	return mux, nil
}

func newCaptureCmd(a *app) *cobra.Command {
	var fl captureFlags
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Record CSI frames from an ESP32 serial console into a capture file",
		Example: `  presence capture --port /dev/ttyUSB0 --out data/walking.txt --duration 30s
  presence capture --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fl.list {
				return listPorts(cmd)
			}
			return runCapture(cmd, a, &fl)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&fl.port, "port", "p", "", "Serial device (default $PRESENCE_SERIAL_PORT)")
	f.IntVar(&fl.baud, "baud", 0, "Baud rate (default $PRESENCE_SERIAL_BAUD, else 115200)")
	f.StringVarP(&fl.out, "out", "o", "", "Capture file to write")
	f.StringVar(&fl.marker, "marker", l1capture.DefaultMarker, "Only lines containing this marker are recorded")
	f.DurationVarP(&fl.duration, "duration", "d", 0, "Stop after this long (default: until interrupted)")
	f.BoolVar(&fl.list, "list", false, "List serial ports and exit")
	return cmd
}

func listPorts(cmd *cobra.Command) error {
	ports, err := serialmux.ListPorts()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(ports) == 0 {
		fmt.Fprintln(out, "No serial ports found")
	}
	for _, p := range ports {
		fmt.Fprintln(out, p)
	}
	return nil
}

func runCapture(cmd *cobra.Command, a *app, fl *captureFlags) error {
	port := firstNonEmpty(fl.port, a.env.SerialPort)
	if port == "" {
		return fmt.Errorf("no serial port: pass --port or set PRESENCE_SERIAL_PORT")
	}
	if fl.out == "" {
		return fmt.Errorf("--out is required")
	}
	if err := security.ValidateOutputPath(fl.out); err != nil {
		return err
	}
	baud := fl.baud
	if baud <= 0 {
		baud = a.env.SerialBaud
	}

	mux, err := openSerial(port, serialmux.PortOptions{BaudRate: baud})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fl.out), 0o755); err != nil {
		mux.Close()
		return fmt.Errorf("failed to create capture directory: %w", err)
	}
	f, err := os.Create(fl.out)
	if err != nil {
		mux.Close()
		return fmt.Errorf("failed to create capture file: %w", err)
	}
	defer f.Close()

	ctx := cmd.Context()
	if fl.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, fl.duration)
		defer cancel()
	}

	monitoring.Logf("capturing %s at %d baud into %s", port, baud, fl.out)
	stats, err := record(ctx, mux, l1capture.NewRecorder(f, fl.marker), fl.marker)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close capture file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d frames to %s (%d other lines, %d dropped)\n",
		stats.Written, fl.out, stats.Skipped, mux.Dropped())
	return nil
}

// record runs the recorder and a device log tap against mux until ctx ends
// or the console closes, then closes mux.
func record(ctx context.Context, mux serialmux.SerialMuxInterface, rec *l1capture.Recorder, marker string) (l1capture.RecordStats, error) {
	var stats l1capture.RecordStats
	g, gctx := errgroup.WithContext(ctx)

	recording := make(chan struct{})
	g.Go(func() error {
		var err error
		stats, err = rec.Record(gctx, notifyingSource{mux, recording})
		return err
	})

	// Echo device log output at debug level.
	_, lines := mux.Subscribe()
	g.Go(func() error {
		for line := range lines {
			if serialmux.ClassifyLine(line, marker) == serialmux.LineTypeLog {
				monitoring.Debugf("device: %s", line)
			}
		}
		return nil
	})

	g.Go(func() error {
		<-recording
		err := mux.Monitor(gctx)
		if cerr := mux.Close(); cerr != nil {
			monitoring.Logf("warning: failed to close serial port: %v", cerr)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	})

	err := g.Wait()
	return stats, err
}

// notifyingSource closes ready once the recorder has subscribed, so no
// frame is read before anyone listens.
type notifyingSource struct {
	serialmux.SerialMuxInterface
	ready chan struct{}
}

func (s notifyingSource) Subscribe() (string, chan string) {
	id, ch := s.SerialMuxInterface.Subscribe()
	close(s.ready)
	return id, ch
}
