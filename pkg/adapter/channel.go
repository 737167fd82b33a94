package adapter

import (
	"context"
	"fmt"

	"github.com/3leaps/streamwarden/pkg/stream"
)

// Run drives p from a channel-based producer, grounded on gonimbus's
// pkg/crawler bounded-channel pipeline: a stage reads from an inbound
// channel and stops pulling as soon as its own work is done, rather than
// draining it unconditionally. Run stops reading tokens — not just
// processing them — the moment the stream halts or ctx is canceled, per
// spec §4.4 ("on halt, no further tokens are pulled from the producer")
// and §5 ("the producer side is canceled by the adapter when HALT fires").
//
// Run returns nil on a clean end (channel closed or a committed HALT),
// ctx.Err() if ctx was canceled first, or the *stream.CallbackFailure that
// halted the stream abnormally.
func Run(ctx context.Context, p *stream.Processor, tokens <-chan string, cfg Config, sink Sink) error {
	rp, err := cfg.buildRepacker()
	if err != nil {
		return err
	}

	for {
		if cfg.Limiter != nil {
			if err := cfg.Limiter.Wait(ctx); err != nil {
				return fmt.Errorf("adapter: rate limiter: %w", err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case token, ok := <-tokens:
			if !ok {
				flushFinal(p, rp, sink)
				return nil
			}

			halted, err := feedToken(p, rp, token, sink)
			if err != nil {
				return err
			}
			for _, unit := range rp.EndToken() {
				sink(unit)
			}
			if halted {
				flushFinal(p, rp, sink)
				return nil
			}
		}
	}
}
