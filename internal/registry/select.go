package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flarebyte/spackter/internal/apperr"
)

// Match is a registry entry selected by a query.
type Match struct {
	Path   string
	Record Record
}

// Select returns every stack named query, or the stack whose ID is query
// when byID is set. No match is an empty result, not an error.
func (d *Document) Select(query string, byID bool) ([]Match, error) {
	var out []Match
	if !byID {
		for p, r := range d.Stacks {
			if r.Name == query {
				out = append(out, Match{Path: p, Record: r})
			}
		}
		sortMatches(out)
		return out, nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(query))
	if err != nil {
		return nil, apperr.InvalidArgument("stack id must be an integer, got %q", query)
	}
	for p, r := range d.Stacks {
		if r.ID == id {
			out = append(out, Match{Path: p, Record: r})
		}
	}
	sortMatches(out)
	return out, nil
}

// Resolve narrows a query to exactly one stack. It returns a NotFound error
// for no match and an *AmbiguousError when several stacks share the name.
func (d *Document) Resolve(query string, byID bool) (Match, error) {
	ms, err := d.Select(query, byID)
	if err != nil {
		return Match{}, err
	}
	switch len(ms) {
	case 0:
		if byID {
			return Match{}, apperr.NotFound("could not find a spack stack with the id '%s'", query)
		}
		return Match{}, apperr.NotFound("could not find a spack stack with the name '%s'", query)
	case 1:
		return ms[0], nil
	default:
		return Match{}, &AmbiguousError{Query: query, Matches: ms}
	}
}

// AmbiguousError carries every stack sharing the queried name.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("there are %d spack stacks with the name '%s'", len(e.Matches), e.Query)
}

func (e *AmbiguousError) Unwrap() error { return apperr.ErrAmbiguousSelection }

func (e *AmbiguousError) ExitCode() int { return 1 }
