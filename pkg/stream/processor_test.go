package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/streamwarden/pkg/keyword"
)

func runAll(t *testing.T, p *Processor, input string) (string, error) {
	t.Helper()
	var out []rune
	for _, r := range input {
		emitted, err := p.Step(r)
		out = append(out, emitted...)
		if err != nil {
			return string(out), err
		}
	}
	out = append(out, p.Flush()...)
	return string(out), nil
}

func replaceCallback(text string) keyword.CallbackFunc {
	return func(keyword.ActionContext) (keyword.ActionDecision, error) {
		return keyword.ReplaceDecision(text), nil
	}
}

func constDecision(d keyword.ActionDecision) keyword.CallbackFunc {
	return func(keyword.ActionContext) (keyword.ActionDecision, error) { return d, nil }
}

// Scenario 1.
func TestScenarioReplace(t *testing.T) {
	reg := keyword.NewRegistry()
	require.NoError(t, reg.Register("secret", replaceCallback("[R]")))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	out, err := runAll(t, p, "My secret data.")
	require.NoError(t, err)
	assert.Equal(t, "My [R] data.", out)
}

// Scenario 2.
func TestScenarioDropThenHalt(t *testing.T) {
	reg := keyword.NewRegistry()
	require.NoError(t, reg.Register("foo", constDecision(keyword.DropDecision())))
	require.NoError(t, reg.Register("stop", constDecision(keyword.HaltDecision())))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	var out []rune
	halted := false
	for _, r := range "afoobstopxyz" {
		emitted, err := p.Step(r)
		out = append(out, emitted...)
		if errors.Is(err, ErrStreamHalted) {
			halted = true
			break
		}
		require.NoError(t, err)
	}
	require.True(t, halted)
	assert.Equal(t, "abstop", string(out))

	// Once halted, further Step calls are no-ops (P5).
	emitted, err := p.Step('Q')
	require.NoError(t, err)
	assert.Empty(t, emitted)
	assert.Nil(t, p.Flush())
}

// Scenario 5.
func TestScenarioCallbackObservesHistory(t *testing.T) {
	reg := keyword.NewRegistry()
	var seenInputs string
	require.NoError(t, reg.Register("x", keyword.CallbackFunc(func(ctx keyword.ActionContext) (keyword.ActionDecision, error) {
		seenInputs = string(ctx.History.Inputs())
		return keyword.ReplaceDecision("<" + seenInputs + ">"), nil
	})))
	p := NewProcessor(reg.Snapshot(), WithHistory(true))

	out, err := runAll(t, p, "abcx")
	require.NoError(t, err)
	assert.Equal(t, "abc<abcx>", out)
}

// Scenario 6.
func TestScenarioEmptyRegistryPassThrough(t *testing.T) {
	reg := keyword.NewRegistry()
	p := NewProcessor(reg.Snapshot(), WithHistory(false))
	out, err := runAll(t, p, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

// See DESIGN.md's "Scenario 4's prose output vs. §4.2's pseudocode" entry:
// this pins the output that following §4.2's pseudocode literally produces,
// which differs from spec §8 scenario 4's prose string.
func TestSegmentDropToggle(t *testing.T) {
	reg := keyword.NewRegistry()
	require.NoError(t, reg.Register("<thought>", constDecision(keyword.ContinueDropDecision())))
	require.NoError(t, reg.Register("</thought>", constDecision(keyword.ContinuePassDecision())))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	out, err := runAll(t, p, "hi <thought>x</thought>!")
	require.NoError(t, err)
	assert.Equal(t, "hi <thought></thought>!", out)
}

func TestLongestMatchWins(t *testing.T) {
	reg := keyword.NewRegistry()
	var seen []string
	track := func(name string) keyword.CallbackFunc {
		return func(keyword.ActionContext) (keyword.ActionDecision, error) {
			seen = append(seen, name)
			return keyword.PassDecision(), nil
		}
	}
	require.NoError(t, reg.Register("he", track("he")))
	require.NoError(t, reg.Register("she", track("she")))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	_, err := runAll(t, p, "she")
	require.NoError(t, err)
	assert.Equal(t, []string{"she"}, seen)
}

func TestCallbackErrorHaltsAndWrapsFailure(t *testing.T) {
	reg := keyword.NewRegistry()
	boom := errors.New("boom")
	require.NoError(t, reg.Register("bad", keyword.CallbackFunc(func(keyword.ActionContext) (keyword.ActionDecision, error) {
		return keyword.ActionDecision{}, boom
	})))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	var out []rune
	var failErr error
	for _, r := range "xbady" {
		emitted, err := p.Step(r)
		out = append(out, emitted...)
		if err != nil {
			failErr = err
			break
		}
	}
	require.Error(t, failErr)
	var cf *CallbackFailure
	require.True(t, errors.As(failErr, &cf))
	assert.Equal(t, "bad", cf.Keyword)
	assert.ErrorIs(t, failErr, boom)
	assert.Equal(t, "x", string(out), "characters before the offending match are still delivered")
}

func TestMalformedDecisionIsCallbackFailure(t *testing.T) {
	reg := keyword.NewRegistry()
	require.NoError(t, reg.Register("x", keyword.CallbackFunc(func(keyword.ActionContext) (keyword.ActionDecision, error) {
		return keyword.ActionDecision{}, nil // zero value: KindUnspecified, invalid
	})))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	_, err := p.Step('x')
	var cf *CallbackFailure
	require.True(t, errors.As(err, &cf))
}

func TestHalfCallbacksLastWinsUnlessHalt(t *testing.T) {
	reg := keyword.NewRegistry()
	require.NoError(t, reg.Register("x", constDecision(keyword.DropDecision())))
	require.NoError(t, reg.Register("x", constDecision(keyword.PassDecision())))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	out, err := runAll(t, p, "x")
	require.NoError(t, err)
	assert.Equal(t, "x", out, "last decision (PASS) should win over the earlier DROP")
}

func TestHaltOverridesLaterPass(t *testing.T) {
	reg := keyword.NewRegistry()
	require.NoError(t, reg.Register("x", constDecision(keyword.HaltDecision())))
	require.NoError(t, reg.Register("x", constDecision(keyword.PassDecision())))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	emitted, err := p.Step('x')
	assert.ErrorIs(t, err, ErrStreamHalted)
	assert.Equal(t, "x", string(emitted))
}

func TestBufferBoundInvariant(t *testing.T) {
	reg := keyword.NewRegistry()
	require.NoError(t, reg.Register("keyword", constDecision(keyword.DropDecision())))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	for _, r := range "unrelatedtextwithnomatchatallxxxxxxxxxxx" {
		_, err := p.Step(r)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(p.buf), p.maxLen)
	}
}

func TestCompletenessWhenNoMatches(t *testing.T) {
	reg := keyword.NewRegistry()
	require.NoError(t, reg.Register("zzz", constDecision(keyword.DropDecision())))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	out, err := runAll(t, p, "the quick brown fox")
	require.NoError(t, err)
	assert.Equal(t, "the quick brown fox", out)
}

func TestFlushIdempotent(t *testing.T) {
	reg := keyword.NewRegistry()
	require.NoError(t, reg.Register("keyword", constDecision(keyword.DropDecision())))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	_, err := p.Step('a')
	require.NoError(t, err)
	first := p.Flush()
	second := p.Flush()
	assert.NotNil(t, first)
	assert.Nil(t, second)
}

func TestHistoryConsistency(t *testing.T) {
	reg := keyword.NewRegistry()
	require.NoError(t, reg.Register("bc", constDecision(keyword.DropDecision())))
	p := NewProcessor(reg.Snapshot(), WithHistory(true))

	_, err := runAll(t, p, "abcd")
	require.NoError(t, err)

	hist := p.History()
	assert.Equal(t, int64(len(hist.Inputs())), p.Stats().InputsConsumed)
	for _, a := range hist.Actions() {
		assert.GreaterOrEqual(t, a.AbsolutePos, int64(1))
		assert.LessOrEqual(t, a.AbsolutePos, p.Stats().InputsConsumed)
	}
}

func TestNullHistoryIsEmpty(t *testing.T) {
	reg := keyword.NewRegistry()
	require.NoError(t, reg.Register("a", constDecision(keyword.PassDecision())))
	p := NewProcessor(reg.Snapshot(), WithHistory(false))

	_, err := runAll(t, p, "abc")
	require.NoError(t, err)

	hist := p.History()
	assert.Empty(t, hist.Inputs())
	assert.Empty(t, hist.Outputs())
	assert.Empty(t, hist.Actions())
}

func TestProcessorHasStableID(t *testing.T) {
	reg := keyword.NewRegistry()
	p := NewProcessor(reg.Snapshot())
	assert.NotEmpty(t, p.ID())
	id := p.ID()
	_, _ = p.Step('a')
	assert.Equal(t, id, p.ID())
}
