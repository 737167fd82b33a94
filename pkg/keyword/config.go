package keyword

import "fmt"

// BindingConfig is the declarative form of one (keyword, action) pair, the
// shape internal/config unmarshals from YAML. It exists so a Registry can
// be seeded without writing a Go callback for the common static cases.
type BindingConfig struct {
	Keyword     string `yaml:"keyword"`
	Action      string `yaml:"action"`
	Replacement string `yaml:"replacement,omitempty"`
}

// RegistryConfig is an ordered list of static bindings.
type RegistryConfig struct {
	Bindings []BindingConfig `yaml:"bindings"`
}

// actionFromName resolves every action name except REPLACE, which carries
// a payload and is handled by the caller. Returns an error for any name
// outside the closed set of kinds.
func actionFromName(name string) (ActionDecision, error) {
	switch name {
	case "PASS":
		return PassDecision(), nil
	case "DROP":
		return DropDecision(), nil
	case "HALT":
		return HaltDecision(), nil
	case "CONTINUE_DROP":
		return ContinueDropDecision(), nil
	case "CONTINUE_PASS":
		return ContinuePassDecision(), nil
	case "REPLACE":
		return ActionDecision{}, fmt.Errorf("keyword: REPLACE binding requires a replacement field")
	default:
		return ActionDecision{}, fmt.Errorf("keyword: unknown action %q", name)
	}
}

// staticCallback always returns the same precomputed decision, regardless
// of context — the callback shape for a declarative, non-dynamic binding.
type staticCallback struct {
	decision ActionDecision
}

func (s staticCallback) Decide(ActionContext) (ActionDecision, error) {
	return s.decision, nil
}

// ApplyConfig registers every binding in cfg against r as a static
// callback. Validation happens eagerly: a malformed action fails the whole
// call before any binding is registered, rather than surfacing later as a
// CallbackFailure mid-stream.
func ApplyConfig(r *Registry, cfg RegistryConfig) error {
	resolved := make([]struct {
		keyword  string
		decision ActionDecision
	}, 0, len(cfg.Bindings))

	for _, b := range cfg.Bindings {
		if b.Keyword == "" {
			return ErrInvalidKeyword
		}
		var decision ActionDecision
		if b.Action == "REPLACE" {
			decision = ReplaceDecision(b.Replacement)
		} else {
			d, err := actionFromName(b.Action)
			if err != nil {
				return err
			}
			decision = d
		}
		resolved = append(resolved, struct {
			keyword  string
			decision ActionDecision
		}{keyword: b.Keyword, decision: decision})
	}

	for _, rb := range resolved {
		if err := r.Register(rb.keyword, staticCallback{decision: rb.decision}); err != nil {
			return err
		}
	}
	return nil
}
