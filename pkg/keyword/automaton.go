// Package keyword owns the set of (keyword, callback) bindings and the
// compiled Aho-Corasick automaton used to match them against a character
// stream. The trie construction and breadth-first failure-link computation
// below are adapted from github.com/itgcl/ahocorasick's rune-based matcher,
// extended to materialize a sorted output set per node (rather than a
// single suffix pointer) so that longest-match resolution at stream time
// never has to walk the failure chain.
package keyword

import "sort"

// Node is an opaque automaton state. The zero value is not usable; obtain
// one via Automaton.Root or Automaton.Step.
type Node struct {
	children map[rune]*Node
	fail     *Node
	root     bool
	terminal int // index into Automaton.keywords, -1 if this node is not terminal
	output   []int
}

// Match is one keyword reachable at a given automaton state, either because
// the state is terminal for it or because it is reachable via the failure
// chain.
type Match struct {
	Keyword string
	RuneLen int
}

// Automaton is an immutable, compiled multi-pattern matcher over a fixed
// keyword set. It is safe for concurrent read-only use by multiple
// Processors.
type Automaton struct {
	root        *Node
	keywords    []string
	keywordLens []int
	maxLen      int
}

// buildAutomaton compiles keywords (in stable registration order, one entry
// per distinct keyword) into an Automaton. Callers must ensure keywords
// contains no duplicates and no empty strings.
func buildAutomaton(keywords []string) *Automaton {
	root := &Node{children: make(map[rune]*Node), root: true, terminal: -1}
	root.fail = root

	lens := make([]int, len(keywords))
	for id, kw := range keywords {
		n := root
		runeLen := 0
		for _, r := range kw {
			runeLen++
			c, ok := n.children[r]
			if !ok {
				c = &Node{children: make(map[rune]*Node), terminal: -1}
				n.children[r] = c
			}
			n = c
		}
		n.terminal = id
		lens[id] = runeLen
	}

	// Breadth-first failure-link construction, as in the teacher's
	// buildTrie: first-level children fail to root; every deeper node's
	// failure link is found by following its parent's failure chain.
	queue := make([]*Node, 0, len(keywords))
	for _, c := range root.children {
		c.fail = root
		queue = append(queue, c)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for r, child := range n.children {
			queue = append(queue, child)
			f := n.fail
			for {
				if fc, ok := f.children[r]; ok {
					child.fail = fc
					break
				}
				if f.root {
					child.fail = root
					break
				}
				f = f.fail
			}
		}
	}

	// Materialize each node's output set. BFS visitation order guarantees
	// a node's failure link (strictly shallower) already has its output
	// set computed by the time the node itself is processed.
	order := bfsOrder(root)
	for _, n := range order {
		n.output = mergeOutput(n, lens)
	}

	maxLen := 0
	for _, l := range lens {
		if l > maxLen {
			maxLen = l
		}
	}

	return &Automaton{root: root, keywords: keywords, keywordLens: lens, maxLen: maxLen}
}

func bfsOrder(root *Node) []*Node {
	order := make([]*Node, 0, 16)
	queue := make([]*Node, 0, 16)
	for _, c := range root.children {
		queue = append(queue, c)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, c := range n.children {
			queue = append(queue, c)
		}
	}
	return order
}

// mergeOutput concatenates n's own terminal keyword (if any) with its
// failure node's already-materialized output set, then sorts by descending
// keyword length, breaking ties by ascending keyword id — ids are assigned
// in registration order, so this is exactly the spec's tie-break rule.
func mergeOutput(n *Node, lens []int) []int {
	var out []int
	if n.terminal >= 0 {
		out = append(out, n.terminal)
	}
	out = append(out, n.fail.output...)
	sort.SliceStable(out, func(i, j int) bool {
		if lens[out[i]] != lens[out[j]] {
			return lens[out[i]] > lens[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// Root returns the automaton's initial state.
func (a *Automaton) Root() *Node { return a.root }

// MaxLen returns L, the rune length of the longest compiled keyword (0 if
// the automaton has no keywords).
func (a *Automaton) MaxLen() int { return a.maxLen }

// Step advances from state n on input rune r, following failure links as
// needed, and returns the resulting state.
func (a *Automaton) Step(n *Node, r rune) *Node {
	for {
		if c, ok := n.children[r]; ok {
			return c
		}
		if n.root {
			return a.root
		}
		n = n.fail
	}
}

// Matches returns the keywords in n's output set, sorted by
// descending keyword length with ties broken by registration order (i.e.
// ascending keyword id). An empty state (e.g. the root) yields nil.
func (a *Automaton) Matches(n *Node) []Match {
	if len(n.output) == 0 {
		return nil
	}
	res := make([]Match, len(n.output))
	for i, id := range n.output {
		res[i] = Match{Keyword: a.keywords[id], RuneLen: a.keywordLens[id]}
	}
	return res
}
