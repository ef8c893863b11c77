// Package policy decides what happens when a gated creation phase fails.
package policy

import (
	"sort"
	"strings"

	"github.com/flarebyte/spackter/internal/apperr"
)

// Phase is a creation phase whose failures can be tolerated.
type Phase string

const (
	PhasePatch   Phase = "patch"
	PhasePR      Phase = "pr"
	PhasePackage Phase = "package"
	PhaseScript  Phase = "script"
)

const wildcard = "all"

// Phases lists every gated phase.
var Phases = []Phase{PhasePatch, PhasePR, PhasePackage, PhaseScript}

// Decision is the resolved behaviour for a failing phase.
type Decision int

const (
	// Prompt asks the operator whether to skip the failure.
	Prompt Decision = iota
	// AlwaysAllow records the failure and continues.
	AlwaysAllow
	// AlwaysDeny aborts the pipeline.
	AlwaysDeny
)

func (d Decision) String() string {
	switch d {
	case AlwaysAllow:
		return "allow"
	case AlwaysDeny:
		return "deny"
	default:
		return "prompt"
	}
}

// Policy maps phases to decisions. Phases without an entry prompt.
type Policy map[Phase]Decision

// Decision returns the decision for phase.
func (p Policy) Decision(phase Phase) Decision {
	if d, ok := p[phase]; ok {
		return d
	}
	return Prompt
}

// Parse builds a Policy from the comma separated allow and deny lists.
func Parse(allow, deny string) (Policy, error) {
	allowed, err := expand("--allow-errors", allow)
	if err != nil {
		return nil, err
	}
	denied, err := expand("--no-allow-errors", deny)
	if err != nil {
		return nil, err
	}
	var both []string
	for ph := range allowed {
		if _, ok := denied[ph]; ok {
			both = append(both, string(ph))
		}
	}
	if len(both) > 0 {
		sort.Strings(both)
		return nil, apperr.InvalidArgument("--allow-errors and --no-allow-errors contain same options: %s", strings.Join(both, ", "))
	}
	p := Policy{}
	for ph := range allowed {
		p[ph] = AlwaysAllow
	}
	for ph := range denied {
		p[ph] = AlwaysDeny
	}
	return p, nil
}

func expand(flag, list string) (map[Phase]struct{}, error) {
	out := map[Phase]struct{}{}
	for _, raw := range strings.Split(list, ",") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		if tok == wildcard {
			for _, ph := range Phases {
				out[ph] = struct{}{}
			}
			continue
		}
		if !known(Phase(tok)) {
			return nil, apperr.InvalidArgument("unknown option for %s: %s", flag, tok)
		}
		out[Phase(tok)] = struct{}{}
	}
	return out, nil
}

func known(ph Phase) bool {
	for _, p := range Phases {
		if p == ph {
			return true
		}
	}
	return false
}
