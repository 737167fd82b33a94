package keyword

// ActionKind is the closed set of verdicts a Callback may return for a
// matched keyword.
type ActionKind int

const (
	// KindUnspecified is the zero value. A decision left at this kind is
	// malformed and causes the stream to halt with a CallbackFailure.
	KindUnspecified ActionKind = iota

	// KindPass emits the matched keyword unchanged.
	KindPass

	// KindDrop removes the matched keyword from the output.
	KindDrop

	// KindReplace removes the matched keyword and emits a replacement
	// string instead. The replacement may be empty.
	KindReplace

	// KindHalt emits the match and terminates the stream.
	KindHalt

	// KindContinueDrop emits the match and enters segment-drop mode.
	KindContinueDrop

	// KindContinuePass leaves segment-drop mode, then emits the match.
	KindContinuePass
)

func (k ActionKind) String() string {
	switch k {
	case KindPass:
		return "PASS"
	case KindDrop:
		return "DROP"
	case KindReplace:
		return "REPLACE"
	case KindHalt:
		return "HALT"
	case KindContinueDrop:
		return "CONTINUE_DROP"
	case KindContinuePass:
		return "CONTINUE_PASS"
	default:
		return "UNSPECIFIED"
	}
}

// ActionDecision is the tagged-variant value a Callback returns in response
// to a match. Replacement is only meaningful when Kind is KindReplace; it is
// ignored for every other kind. Build decisions with the constructors below
// rather than struct literals — the zero value is deliberately invalid so
// that a forgotten Kind surfaces as a CallbackFailure instead of silently
// behaving like a PASS.
type ActionDecision struct {
	Kind           ActionKind
	Replacement    string
	replacementSet bool
}

// PassDecision emits the matched keyword as-is.
func PassDecision() ActionDecision { return ActionDecision{Kind: KindPass} }

// DropDecision removes the matched keyword from the output.
func DropDecision() ActionDecision { return ActionDecision{Kind: KindDrop} }

// ReplaceDecision removes the matched keyword and emits text instead. text
// may be empty.
func ReplaceDecision(text string) ActionDecision {
	return ActionDecision{Kind: KindReplace, Replacement: text, replacementSet: true}
}

// HaltDecision emits the match and terminates the stream.
func HaltDecision() ActionDecision { return ActionDecision{Kind: KindHalt} }

// ContinueDropDecision emits the match and enters segment-drop mode.
func ContinueDropDecision() ActionDecision { return ActionDecision{Kind: KindContinueDrop} }

// ContinuePassDecision leaves segment-drop mode, then emits the match.
func ContinuePassDecision() ActionDecision { return ActionDecision{Kind: KindContinuePass} }

// Valid reports whether d is a well-formed decision: a known Kind, with a
// Replacement set if and only if Kind is KindReplace.
func (d ActionDecision) Valid() bool {
	switch d.Kind {
	case KindPass, KindDrop, KindHalt, KindContinueDrop, KindContinuePass:
		return true
	case KindReplace:
		return d.replacementSet
	default:
		return false
	}
}

// ActionContext is the read-only view a Callback receives when its bound
// keyword matches. Implementations must not retain Buffer beyond the call.
type ActionContext struct {
	// Keyword is the matched keyword.
	Keyword string

	// Buffer is the matched span at the moment of dispatch — per the
	// pre-match flush, this is exactly the matched keyword's characters.
	Buffer []rune

	// AbsolutePos is the 1-based end position of the match within the
	// input stream consumed so far.
	AbsolutePos int64

	// History exposes the processor's append-only record of inputs,
	// outputs, and committed actions.
	History HistoryView
}

// ActionRecord is a single committed decision, recorded in history at the
// moment a callback's decision is applied.
type ActionRecord struct {
	AbsolutePos int64
	Keyword     string
	Kind        ActionKind
	Replacement string
}

// HistoryView is the read-only handle to a processor's history substrate,
// the only part of history a Callback is allowed to observe.
type HistoryView interface {
	Inputs() []rune
	Outputs() []rune
	Actions() []ActionRecord
}

// Callback is a pure function from an ActionContext to an ActionDecision.
// Any value implementing this single method — a struct, a closure via
// CallbackFunc — is a valid callback. A callback that returns an error or
// an invalid decision halts the stream with a CallbackFailure.
type Callback interface {
	Decide(ctx ActionContext) (ActionDecision, error)
}

// CallbackFunc adapts an ordinary function to the Callback interface, in
// the manner of http.HandlerFunc.
type CallbackFunc func(ctx ActionContext) (ActionDecision, error)

// Decide calls f(ctx).
func (f CallbackFunc) Decide(ctx ActionContext) (ActionDecision, error) { return f(ctx) }
