// Package adapter wraps an upstream producer of token strings, feeding
// characters into a stream.Processor and handing emitted output to a
// repack.Repacker. Per the spec's Design Notes, two explicit entry points
// exist rather than one introspecting generator wrapper: RunSync drives a
// plain synchronous iterator (the teacher's own calling convention); Run
// drives a channel-based, cooperatively scheduled producer, grounded on
// gonimbus's pkg/crawler bounded-channel pipeline stages.
package adapter

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/3leaps/streamwarden/pkg/repack"
	"github.com/3leaps/streamwarden/pkg/stream"
)

// ErrInvalidConfiguration is returned by RunSync and Run, before any token
// is pulled, when a chunk:N yield mode names N < 1.
var ErrInvalidConfiguration = repack.ErrInvalidConfiguration

// Config selects the re-packer shape and, optionally, a pull-rate limiter.
type Config struct {
	Mode repack.Mode
	// ChunkSize is only consulted when Mode is repack.ModeChunk.
	ChunkSize int
	// Limiter, if non-nil, paces how fast tokens are pulled from the
	// upstream producer — a client-side throttle, not a back-pressure
	// protocol (spec §1 Non-goals: "no back-pressure signaling upstream").
	// Nil means unlimited, matching gonimbus's crawler.Config.RateLimit
	// convention ("zero means unlimited").
	Limiter *rate.Limiter
}

func (c Config) buildRepacker() (repack.Repacker, error) {
	rp, err := repack.New(c.Mode, c.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("adapter: %w", err)
	}
	return rp, nil
}

// TokenProducer is a plain synchronous iterator over upstream token
// strings — the contract a non-suspending producer (e.g. an in-process
// generator) implements.
type TokenProducer interface {
	// Next returns the next token and true, or ("", false) once exhausted.
	Next() (token string, ok bool)
}

// TokenProducerFunc adapts a function to TokenProducer.
type TokenProducerFunc func() (string, bool)

// Next calls f().
func (f TokenProducerFunc) Next() (string, bool) { return f() }

// Sink receives each re-packed output unit, in order.
type Sink func(unit string)

// RunSync drives producer to completion against p, handing every re-packed
// unit to sink. It returns nil on a clean end (producer exhaustion or a
// committed HALT — no sentinel leaks to the caller, per spec §6) or the
// *stream.CallbackFailure that halted the stream abnormally.
func RunSync(p *stream.Processor, producer TokenProducer, cfg Config, sink Sink) error {
	rp, err := cfg.buildRepacker()
	if err != nil {
		return err
	}

	for {
		token, ok := producer.Next()
		if !ok {
			break
		}
		if cfg.Limiter != nil {
			if err := cfg.Limiter.Wait(context.Background()); err != nil {
				return fmt.Errorf("adapter: rate limiter: %w", err)
			}
		}

		halted, err := feedToken(p, rp, token, sink)
		if err != nil {
			return err
		}
		for _, unit := range rp.EndToken() {
			sink(unit)
		}
		if halted {
			break
		}
	}

	flushFinal(p, rp, sink)
	return nil
}

// feedToken steps p over every rune of token, forwarding re-packed units to
// sink as they become available. It reports whether the stream halted
// during this token and returns any *stream.CallbackFailure encountered.
func feedToken(p *stream.Processor, rp repack.Repacker, token string, sink Sink) (halted bool, err error) {
	for _, r := range token {
		emitted, stepErr := p.Step(r)
		for _, unit := range rp.Feed(emitted) {
			sink(unit)
		}
		if stepErr != nil {
			if errors.Is(stepErr, stream.ErrStreamHalted) {
				return true, nil
			}
			return true, stepErr
		}
	}
	return false, nil
}

// flushFinal drains the processor's buffer and the repacker's own
// remainder once the producer has ended (or the stream halted).
func flushFinal(p *stream.Processor, rp repack.Repacker, sink Sink) {
	for _, unit := range rp.Feed(p.Flush()) {
		sink(unit)
	}
	for _, unit := range rp.Close() {
		sink(unit)
	}
}
