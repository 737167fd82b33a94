// Package stream implements the core streaming matcher: a bounded
// lookahead buffer driven by an Aho-Corasick automaton snapshot from
// pkg/keyword, a decision engine that dispatches matches to callbacks and
// applies their verdicts, and a small history substrate observable from
// those callbacks.
//
// The per-character Step loop is the direct descendant of
// github.com/itgcl/ahocorasick's MatchString inner loop (rune-by-rune
// child lookup with failure-link fallback), restructured from a one-shot
// batch scan into an incremental state machine with a bounded buffer,
// since the teacher has no notion of held-back, not-yet-safe-to-emit
// output.
package stream

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/3leaps/streamwarden/pkg/keyword"
)

// Stats is a point-in-time snapshot of a Processor's counters, for operator
// visibility — analogous to a crawl summary in a batch pipeline.
type Stats struct {
	InputsConsumed   int64
	OutputsEmitted   int64
	MatchesCommitted int64
	SegmentDrop      bool
	Halted           bool
}

// Option configures a Processor at construction.
type Option func(*Processor)

// WithHistory selects the recording history substrate when record is true
// (the default) or the null substrate when false.
func WithHistory(record bool) Option {
	return func(p *Processor) {
		if record {
			p.hist = newRecordingHistory()
		} else {
			p.hist = nullHistory{}
		}
	}
}

// WithLogger injects a zap logger for diagnostic logging on match commit,
// halt, and callback failure. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithID overrides the processor's auto-generated stream id.
func WithID(id string) Option {
	return func(p *Processor) { p.id = id }
}

// Processor is the per-stream state machine described in spec §4.2. A
// Processor is not safe for concurrent use: process one character fully to
// completion before the next begins (spec §5).
type Processor struct {
	id     string
	snap   *keyword.Snapshot
	maxLen int

	buf   []rune
	state *keyword.Node

	absolutePos int64
	segmentDrop bool
	halted      bool

	outputsEmitted   int64
	matchesCommitted int64

	hist   history
	logger *zap.Logger
}

// NewProcessor builds a Processor bound to snap, which it holds for its
// entire lifetime regardless of later mutations to the originating
// Registry.
func NewProcessor(snap *keyword.Snapshot, opts ...Option) *Processor {
	p := &Processor{
		id:     uuid.New().String(),
		snap:   snap,
		maxLen: snap.MaxLen(),
		state:  snap.Root(),
		hist:   newRecordingHistory(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns this processor's stream identifier, used to correlate log
// lines across concurrently running streams.
func (p *Processor) ID() string { return p.id }

// Stats returns a snapshot of the processor's counters.
func (p *Processor) Stats() Stats {
	return Stats{
		InputsConsumed:   p.absolutePos,
		OutputsEmitted:   p.outputsEmitted,
		MatchesCommitted: p.matchesCommitted,
		SegmentDrop:      p.segmentDrop,
		Halted:           p.halted,
	}
}

// History returns the read-only view of this processor's history
// substrate, the same handle callbacks receive via ActionContext.
func (p *Processor) History() keyword.HistoryView { return p.hist }

// Step consumes one input character and returns the characters it causes
// to be emitted downstream, in order. A non-nil error is either
// ErrStreamHalted (the returned characters are the final ones: a HALT
// decision just committed) or a *CallbackFailure (the stream has halted
// without emitting the offending match). Once halted, every subsequent
// call is a no-op returning (nil, nil).
func (p *Processor) Step(c rune) ([]rune, error) {
	if p.halted {
		return nil, nil
	}

	p.hist.recordInput(c)
	p.absolutePos++

	if p.maxLen == 0 {
		p.outputsEmitted++
		p.hist.recordOutputs([]rune{c})
		return []rune{c}, nil
	}

	p.buf = append(p.buf, c)
	p.state = p.snap.Step(p.state, c)

	var emitted []rune

	if matches := p.snap.Matches(p.state); len(matches) > 0 {
		winner := matches[0]
		if winner.RuneLen <= len(p.buf) {
			spanStart := len(p.buf) - winner.RuneLen
			if !p.segmentDrop {
				emitted = append(emitted, p.buf[:spanStart]...)
			}
			span := append([]rune(nil), p.buf[spanStart:]...)
			p.buf = p.buf[:0]
			p.state = p.snap.Root()

			decision, cbIndex, err := p.dispatch(winner.Keyword, span)
			if err != nil {
				p.halted = true
				p.outputsEmitted += int64(len(emitted))
				p.hist.recordOutputs(emitted)
				p.logger.Error("callback failed, halting stream",
					zap.String("stream_id", p.id), zap.String("keyword", winner.Keyword), zap.Error(err))
				return emitted, &CallbackFailure{Keyword: winner.Keyword, CallbackIndex: cbIndex, Err: err}
			}

			applied := p.applyDecision(decision, span)
			emitted = append(emitted, applied...)

			p.hist.recordAction(keyword.ActionRecord{
				AbsolutePos: p.absolutePos,
				Keyword:     winner.Keyword,
				Kind:        decision.Kind,
				Replacement: decision.Replacement,
			})
			p.matchesCommitted++
			p.logger.Debug("match committed",
				zap.String("stream_id", p.id), zap.String("keyword", winner.Keyword), zap.Stringer("decision", decision.Kind))

			if decision.Kind == keyword.KindHalt {
				p.halted = true
				p.outputsEmitted += int64(len(emitted))
				p.hist.recordOutputs(emitted)
				p.logger.Debug("stream halted", zap.String("stream_id", p.id))
				return emitted, ErrStreamHalted
			}
		}
	}

	for len(p.buf) > p.maxLen {
		ch := p.buf[0]
		p.buf = p.buf[1:]
		if !p.segmentDrop {
			emitted = append(emitted, ch)
		}
	}

	p.outputsEmitted += int64(len(emitted))
	p.hist.recordOutputs(emitted)
	return emitted, nil
}

// Flush emits or discards every character still held in the buffer
// (according to the current segment-drop mode), leaves the buffer empty,
// and returns what was emitted. Idempotent: a second call, or a call after
// halt, returns nil.
func (p *Processor) Flush() []rune {
	if p.halted || len(p.buf) == 0 {
		return nil
	}
	var emitted []rune
	if !p.segmentDrop {
		emitted = append([]rune(nil), p.buf...)
	}
	p.buf = p.buf[:0]
	p.outputsEmitted += int64(len(emitted))
	p.hist.recordOutputs(emitted)
	return emitted
}

// dispatch runs every callback bound to kw, in registration order, and
// resolves their decisions. It returns the offending callback's index
// (-1 if none) so CallbackFailure can identify it.
func (p *Processor) dispatch(kw string, span []rune) (keyword.ActionDecision, int, error) {
	cbs := p.snap.Callbacks(kw)
	ctx := keyword.ActionContext{
		Keyword:     kw,
		AbsolutePos: p.absolutePos,
		History:     p.hist,
	}

	decisions := make([]keyword.ActionDecision, 0, len(cbs))
	for i, cb := range cbs {
		ctx.Buffer = append([]rune(nil), span...)
		d, err := cb.Decide(ctx)
		if err != nil {
			return keyword.ActionDecision{}, i, err
		}
		if !d.Valid() {
			return keyword.ActionDecision{}, i, errMalformedDecision
		}
		decisions = append(decisions, d)
	}
	return resolveDecision(decisions), -1, nil
}

// resolveDecision implements spec §4.2 step 6: the last callback's
// decision wins, except that any HALT among them forces HALT regardless of
// position (Design Note: halts are a strict safety override, never
// silently overridable by a later PASS).
func resolveDecision(decisions []keyword.ActionDecision) keyword.ActionDecision {
	if len(decisions) == 0 {
		return keyword.PassDecision()
	}
	for _, d := range decisions {
		if d.Kind == keyword.KindHalt {
			return keyword.HaltDecision()
		}
	}
	return decisions[len(decisions)-1]
}

// applyDecision emits or discards span according to d, mutating
// segmentDrop for the CONTINUE_* kinds, and returns what was emitted.
func (p *Processor) applyDecision(d keyword.ActionDecision, span []rune) []rune {
	switch d.Kind {
	case keyword.KindDrop:
		return nil
	case keyword.KindReplace:
		if p.segmentDrop {
			return nil
		}
		return []rune(d.Replacement)
	case keyword.KindContinueDrop:
		var out []rune
		if !p.segmentDrop {
			out = append([]rune(nil), span...)
		}
		p.segmentDrop = true
		return out
	case keyword.KindContinuePass:
		// Flip first, then apply the (now-false) segment-drop flag to the
		// toggling match's own emission — spec §9 Open Question, resolved
		// in favor of emitting the closing keyword.
		p.segmentDrop = false
		return append([]rune(nil), span...)
	default: // KindPass, KindHalt
		if p.segmentDrop {
			return nil
		}
		return append([]rune(nil), span...)
	}
}
