// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"errors"
	"fmt"

	"github.com/pdiddy/citeworks/internal/alloc"
	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/internal/match"
	"github.com/pdiddy/citeworks/pkg/types"
)

// State is the merge session lifecycle position.
type State int

const (
	StateIdle State = iota
	StateScanned
	StateAwaitingResolution
	StateMerging
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanned:
		return "scanned"
	case StateAwaitingResolution:
		return "awaiting-resolution"
	case StateMerging:
		return "merging"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ErrUnresolved is returned by Merge while conflict candidates still lack a
// decision.
var ErrUnresolved = errors.New("unresolved conflict candidates remain")

// Session drives one scan-resolve-merge cycle:
// Idle → Scanned → (conflicts) AwaitingResolution → Merging → Done.
// Duplicate-labeled candidates require an explicit update/keep-original
// decision each before the merge may run. Cancel returns to Idle without
// touching the input.
type Session struct {
	state       State
	rule        extract.Rule
	original    string
	result      match.Result
	resolutions map[string]types.Resolution
}

// NewSession creates an idle session for the given extraction rule.
func NewSession(rule extract.Rule) *Session {
	return &Session{
		state:       StateIdle,
		rule:        rule,
		resolutions: make(map[string]types.Resolution),
	}
}

// State returns the current lifecycle position.
func (s *Session) State() State { return s.state }

// Scan extracts both documents and runs the matcher. The session moves to
// Scanned, or to AwaitingResolution when duplicate labels need decisions.
func (s *Session) Scan(original, corrected string, opts match.Options) (match.Result, error) {
	if s.state != StateIdle {
		return match.Result{}, fmt.Errorf("scan in state %s", s.state)
	}

	before := extract.Records(original, s.rule)
	after := extract.Records(corrected, s.rule)

	res, err := match.Pairs(before, after, opts)
	if err != nil {
		return match.Result{}, err
	}

	s.original = original
	s.result = res
	if res.HasConflicts() {
		s.state = StateAwaitingResolution
	} else {
		s.state = StateScanned
	}
	return res, nil
}

// Conflicts returns the ambiguities awaiting decisions.
func (s *Session) Conflicts() []types.Conflict {
	return s.result.Conflicts
}

// CandidateKey identifies one conflict candidate for Resolve: the record id
// when present, otherwise the label with the candidate's position.
func CandidateKey(c types.Conflict, i int) string {
	if c.Candidates[i].ID != "" {
		return c.Candidates[i].ID
	}
	return fmt.Sprintf("%s#%d", c.Label, i)
}

// Resolve records the decision for one conflict candidate. Once every
// candidate has a decision the session advances to Scanned.
func (s *Session) Resolve(candidateKey string, d types.Resolution) error {
	if s.state != StateAwaitingResolution {
		return fmt.Errorf("resolve in state %s", s.state)
	}
	if d != types.ResolveUpdate && d != types.ResolveKeepOriginal {
		return fmt.Errorf("unknown resolution %q", d)
	}
	if !s.hasCandidate(candidateKey) {
		return fmt.Errorf("unknown conflict candidate %q", candidateKey)
	}
	s.resolutions[candidateKey] = d
	if s.allResolved() {
		s.state = StateScanned
	}
	return nil
}

func (s *Session) hasCandidate(key string) bool {
	for _, c := range s.result.Conflicts {
		for i := range c.Candidates {
			if CandidateKey(c, i) == key {
				return true
			}
		}
	}
	return false
}

func (s *Session) allResolved() bool {
	for _, c := range s.result.Conflicts {
		for i := range c.Candidates {
			if _, ok := s.resolutions[CandidateKey(c, i)]; !ok {
				return false
			}
		}
	}
	return true
}

// Merge runs the rewrite pass over the scanned input. It requires every
// conflict candidate to be resolved; candidates marked update consume the
// conflict's corrected record (first marked candidate wins), the rest keep
// their original content.
func (s *Session) Merge(a *alloc.Allocator, opts Options) (string, []types.ChangeLogEntry, error) {
	switch s.state {
	case StateAwaitingResolution:
		return "", nil, ErrUnresolved
	case StateScanned:
	default:
		return "", nil, fmt.Errorf("merge in state %s", s.state)
	}
	s.state = StateMerging

	res := s.result
	res.Conflicts = nil

	// Conflicted records carry unmatched placeholder pairs from the scan;
	// drop those so the folded pairs below are their only processing.
	conflictedLabel := make(map[string]bool, len(s.result.Conflicts))
	for _, c := range s.result.Conflicts {
		conflictedLabel[c.Label] = true
	}
	res.Pairs = make([]types.MatchPair, 0, len(s.result.Pairs))
	for _, p := range s.result.Pairs {
		if p.Type == types.MatchNone && p.Before != nil && conflictedLabel[p.Before.Label] {
			continue
		}
		res.Pairs = append(res.Pairs, p)
	}

	// Fold resolved conflicts into ordinary pairs.
	for ci := range s.result.Conflicts {
		c := s.result.Conflicts[ci]
		consumed := false
		for i := range c.Candidates {
			// keep-original passes the candidate through untouched, even
			// under RemoveUnmatched.
			pair := types.MatchPair{
				Before: &c.Candidates[i],
				After:  &c.Candidates[i],
				Type:   types.MatchExactLabel,
				Score:  1.0,
			}
			if s.resolutions[CandidateKey(c, i)] == types.ResolveUpdate && c.After != nil && !consumed {
				pair.After = c.After
				consumed = true
			}
			res.Pairs = append(res.Pairs, pair)
		}
	}

	out, entries, err := Apply(s.original, res, a, opts)
	if err != nil {
		s.state = StateScanned
		return "", nil, err
	}
	s.state = StateDone
	return out, entries, nil
}

// Cancel abandons the cycle and returns to Idle. The input text is never
// mutated, so cancelling is always safe.
func (s *Session) Cancel() {
	s.state = StateIdle
	s.original = ""
	s.result = match.Result{}
	s.resolutions = make(map[string]types.Resolution)
}
