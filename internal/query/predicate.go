package query

import (
	"github.com/nelkk/tree-house-go/internal/input"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Capture identifies a capture slot within a compiled query.
type Capture uint32

// Pattern identifies one pattern (one top-level S-expression) within a
// compiled query.
type Pattern uint32

// TextPredicateKind distinguishes the four shapes a text predicate can take.
type TextPredicateKind int

const (
	// EqString compares a capture's text against a literal string.
	EqString TextPredicateKind = iota
	// EqCapture compares a capture's text against another capture's text.
	EqCapture
	// MatchRegex tests a capture's text against a regular expression.
	MatchRegex
	// AnyString tests a capture's text against a list of literal strings.
	AnyString
)

// TextPredicate is a single #eq?/#match?/#any-of? (and their not-/any-
// variants) predicate attached to a pattern.
type TextPredicate struct {
	Capture      Capture
	Kind         TextPredicateKind
	StringValue  string
	OtherCapture Capture
	Regex        Regex
	Values       []string
	// Negated inverts the sense of the comparison (not-eq?, not-match?, ...).
	Negated bool
	// MatchAll requires every node bound to Capture to satisfy the
	// predicate; when false, any single match is enough (the any- variants).
	MatchAll bool
}

func satisfiedHelper(matchAll, negated bool, results []bool) bool {
	if len(results) == 0 {
		return true
	}
	if matchAll {
		for _, matched := range results {
			if matched == negated {
				return false
			}
		}
		return true
	}
	for _, matched := range results {
		if matched != negated {
			return true
		}
	}
	return false
}

func capturedRanges(capture Capture, nodes []tree_sitter.QueryCapture) []tree_sitter.Range {
	var ranges []tree_sitter.Range
	for _, n := range nodes {
		if Capture(n.Index) == capture {
			ranges = append(ranges, n.Node.Range())
		}
	}
	return ranges
}

// Satisfied evaluates the predicate against the nodes captured by one query
// match, reading candidate text from buf.
func (p TextPredicate) Satisfied(buf *input.Buffer, captures []tree_sitter.QueryCapture) bool {
	ranges := capturedRanges(p.Capture, captures)

	switch p.Kind {
	case EqString:
		results := make([]bool, len(ranges))
		for i, r := range ranges {
			results[i] = buf.MatchesString(p.StringValue, r)
		}
		return satisfiedHelper(p.MatchAll, p.Negated, results)

	case EqCapture:
		otherRanges := capturedRanges(p.OtherCapture, captures)
		n := min(len(ranges), len(otherRanges))
		results := make([]bool, n)
		for i := range n {
			results[i] = buf.Eq(ranges[i], otherRanges[i])
		}
		matched := satisfiedHelper(p.MatchAll, p.Negated, results)
		consumedAll := len(ranges) == len(otherRanges)
		return matched && (!p.MatchAll || consumedAll)

	case MatchRegex:
		results := make([]bool, len(ranges))
		for i, r := range ranges {
			results[i] = p.Regex.MatchString(string(buf.Source()[r.StartByte:r.EndByte]))
		}
		return satisfiedHelper(p.MatchAll, p.Negated, results)

	case AnyString:
		results := make([]bool, len(ranges))
		for i, r := range ranges {
			matched := false
			for _, v := range p.Values {
				if buf.MatchesString(v, r) {
					matched = true
					break
				}
			}
			results[i] = matched
		}
		return satisfiedHelper(p.MatchAll, p.Negated, results)
	}

	return true
}

// Predicate is a generic, uninterpreted predicate invocation, handed to
// custom-predicate callbacks via UserPredicate.Other for any predicate name
// the engine does not understand itself.
type Predicate struct {
	Name string
	Args []PredicateArg
}

// PredicateArg is one argument to a predicate invocation: either a capture
// reference or a string literal.
type PredicateArg struct {
	Capture *Capture
	String  *string
}

// UserPredicate is a predicate the query engine does not evaluate itself;
// it is delivered to the caller's callback at compile time so that a
// higher-level component (the highlighter's configuration builder, a
// locals tracker, ...) can interpret it.
type UserPredicate struct {
	// Kind selects which field below is populated.
	Kind UserPredicateKind

	// IsPropertySet / SetProperty
	Negate bool
	Key    string
	Val    *string

	// IsAnyOf
	Value  string
	Values []string

	// Other
	Other Predicate
}

// UserPredicateKind enumerates the shapes UserPredicate can take.
type UserPredicateKind int

const (
	KindIsPropertySet UserPredicateKind = iota
	KindSetProperty
	KindIsAnyOf
	KindOther
)
