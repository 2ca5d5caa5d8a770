// presence turns CSI captures from an ESP32 receiver into occupancy
// decisions.
//
// Usage:
//
//	presence analyze "Empty Room=data/empty.txt" "Walking=data/walk.txt" --baseline "Empty Room"
//	presence analyze --manifest scenes.yaml --cards --db runs.db
//	presence plot --manifest scenes.yaml --out plots --html report.html
//	presence capture --port /dev/ttyUSB0 --out data/walk.txt --duration 30s
//	presence history --db runs.db [--run ID]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
