// SPDX-License-Identifier: MPL-2.0

// Package match ranks catalogued functions against a user query. It is
// a pure function of catalog and query, so interactive callers can
// re-rank on every keystroke.
package match

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"shelf-cli/internal/script"
)

// Candidate is one ranked result.
type Candidate struct {
	// Function is the matched function.
	Function *script.Function
	// Score is the fuzzy match score. Higher is better. Zero-valued for
	// browse mode (empty query).
	Score int
	// Exact is set when the query equals the function name.
	Exact bool
}

// corpus adapts a function list to fuzzy.Source. Each entry's search
// text is the function name, the owning file's display name, and the
// description, so a query can land on any of the three.
type corpus struct {
	functions []*script.Function
}

func (c corpus) Len() int { return len(c.functions) }

func (c corpus) String(i int) string {
	fn := c.functions[i]
	return fn.Name + " " + fn.File.Name + " " + fn.Description
}

// Rank scores every function against the query and returns candidates
// in deterministic order. An empty query returns the whole input in
// discovery order (browse mode). No match yields an empty, non-nil
// slice: "nothing matched" is a normal result, not an error.
//
// Ties break by: exact name match first, then shorter (more specific)
// name, then stable discovery order.
func Rank(functions []*script.Function, query string) []Candidate {
	query = strings.TrimSpace(query)

	if query == "" {
		all := make([]Candidate, len(functions))
		for i, fn := range functions {
			all[i] = Candidate{Function: fn}
		}
		return all
	}

	matches := fuzzy.FindFrom(query, corpus{functions: functions})

	ranked := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		fn := functions[m.Index]
		ranked = append(ranked, Candidate{
			Function: fn,
			Score:    m.Score,
			Exact:    strings.EqualFold(query, fn.Name),
		})
	}

	order := make(map[*script.Function]int, len(functions))
	for i, fn := range functions {
		order[fn] = i
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Exact != b.Exact {
			return a.Exact
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if la, lb := len(a.Function.Name), len(b.Function.Name); la != lb {
			return la < lb
		}
		return order[a.Function] < order[b.Function]
	})

	return ranked
}

// Functions strips the ranking metadata, returning just the ordered
// functions.
func Functions(candidates []Candidate) []*script.Function {
	out := make([]*script.Function, len(candidates))
	for i, c := range candidates {
		out[i] = c.Function
	}
	return out
}

// ExactMatches returns the candidates whose name equals the query.
// Used for short-circuiting: a unique exact match skips the picker.
func ExactMatches(candidates []Candidate) []Candidate {
	exact := make([]Candidate, 0, 1)
	for _, c := range candidates {
		if c.Exact {
			exact = append(exact, c)
		}
	}
	return exact
}
