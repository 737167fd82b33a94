package stream

import "github.com/3leaps/streamwarden/pkg/keyword"

// history is the processor-internal capability: it can both record and be
// read back. Callbacks only ever see the narrower keyword.HistoryView.
// Two concrete implementations exist — recordingHistory and nullHistory —
// selected once at construction and never switched mid-stream, per spec
// §3's "configured at processor construction; immutable thereafter".
type history interface {
	keyword.HistoryView
	recordInput(r rune)
	recordOutputs(rs []rune)
	recordAction(rec keyword.ActionRecord)
}

// recordingHistory grows all three sequences on every call.
type recordingHistory struct {
	inputs  []rune
	outputs []rune
	actions []keyword.ActionRecord
}

func newRecordingHistory() *recordingHistory {
	return &recordingHistory{}
}

func (h *recordingHistory) recordInput(r rune) { h.inputs = append(h.inputs, r) }

func (h *recordingHistory) recordOutputs(rs []rune) {
	if len(rs) == 0 {
		return
	}
	h.outputs = append(h.outputs, rs...)
}

func (h *recordingHistory) recordAction(rec keyword.ActionRecord) { h.actions = append(h.actions, rec) }

func (h *recordingHistory) Inputs() []rune                  { return h.inputs }
func (h *recordingHistory) Outputs() []rune                 { return h.outputs }
func (h *recordingHistory) Actions() []keyword.ActionRecord { return h.actions }

// nullHistory discards everything. Every method is an empty no-op; calls
// still reach it through the history interface on the per-character path
// when a caller opts out of recording.
type nullHistory struct{}

func (nullHistory) recordInput(rune)                  {}
func (nullHistory) recordOutputs([]rune)               {}
func (nullHistory) recordAction(keyword.ActionRecord) {}
func (nullHistory) Inputs() []rune                    { return nil }
func (nullHistory) Outputs() []rune                   { return nil }
func (nullHistory) Actions() []keyword.ActionRecord   { return nil }
