// Command streamwardendemo is a small demonstration binary, not a CLI
// surface: it wires a YAML registry definition, a stream.Processor, and the
// synchronous adapter together over stdin/stdout so the pipeline can be
// exercised by hand. It takes its arguments positionally rather than
// through a flag/cobra framework, since packaging and CLI ergonomics are
// explicitly out of scope.
package main

import (
	"bufio"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/3leaps/streamwarden/internal/config"
	"github.com/3leaps/streamwarden/internal/telemetry"
	"github.com/3leaps/streamwarden/pkg/adapter"
	"github.com/3leaps/streamwarden/pkg/repack"
	"github.com/3leaps/streamwarden/pkg/stream"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: streamwardendemo <registry.yaml>")
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "streamwardendemo:", err)
		os.Exit(1)
	}
}

func run(registryPath string) error {
	logger := telemetry.New(telemetry.ProfileDevelopment)
	defer logger.Sync() //nolint:errcheck

	reg, err := config.BuildRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}

	p := stream.NewProcessor(reg.Snapshot(), stream.WithLogger(logger))

	scanner := bufio.NewScanner(os.Stdin)
	producer := adapter.TokenProducerFunc(func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		return scanner.Text() + "\n", true
	})

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush() //nolint:errcheck

	cfg := adapter.Config{Mode: repack.ModeChar}
	runErr := adapter.RunSync(p, producer, cfg, func(unit string) {
		out.WriteString(unit) //nolint:errcheck
	})
	if scanErr := scanner.Err(); scanErr != nil {
		return fmt.Errorf("read stdin: %w", scanErr)
	}

	stats := p.Stats()
	logger.Info("stream finished",
		zap.String("stream_id", p.ID()),
		zap.Int64("matches_committed", stats.MatchesCommitted),
		zap.Bool("halted", stats.Halted),
	)
	return runErr
}
