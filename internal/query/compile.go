package query

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/nelkk/tree-house-go/internal/input"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// ErrSourceTooLarge is returned by Compile when source exceeds
// math.MaxInt32 bytes, mirroring the grammar library's own 32-bit byte
// offsets (spec §4.B.2: "Enforce source.len() ≤ i32::MAX").
var ErrSourceTooLarge = errors.New("query source exceeds the maximum supported length")

// checkSourceSize rejects a query source longer than a 32-bit byte offset
// can address, split out from Compile so the boundary itself can be tested
// without allocating a source string anywhere near that size.
func checkSourceSize(length int) error {
	if length > math.MaxInt32 {
		return ErrSourceTooLarge
	}
	return nil
}

// CustomPredicateFunc receives every predicate the engine does not evaluate
// itself: #set!, #is?/#is-not?, and any wholly unrecognized predicate name
// (a literal-first #any-of? never arrives here; see Compile). The callback lets a higher-level component
// (a highlight configuration, a locals tracker, ...) interpret these in the
// context it understands.
type CustomPredicateFunc func(pattern Pattern, predicate UserPredicate) error

// Compiled wraps a tree-sitter query together with the per-pattern text
// predicates the engine evaluates at match time.
type Compiled struct {
	Query          *tree_sitter.Query
	textPredicates [][]TextPredicate
}

// TextPredicates returns the predicates attached to the given pattern.
func (c *Compiled) TextPredicates(pattern uint) []TextPredicate {
	if pattern >= uint(len(c.textPredicates)) {
		return nil
	}
	return c.textPredicates[pattern]
}

// Satisfied reports whether every text predicate attached to match's
// pattern holds for the nodes it captured.
func (c *Compiled) Satisfied(buf *input.Buffer, match tree_sitter.QueryMatch) bool {
	for _, p := range c.TextPredicates(match.PatternIndex) {
		if !p.Satisfied(buf, match.Captures) {
			return false
		}
	}
	return true
}

// Compile builds a query from source, classifying every pattern's
// predicates. Predicates the engine understands natively -- #eq?, #match?,
// #any-of? with a capture argument, and their negated/any- variants -- are
// captured as TextPredicate values consulted later via Satisfied. Every
// other predicate is delivered to onPredicate.
//
// A literal-first #any-of? (`(#any-of? "a" "b" "c")` with no capture
// argument) is part of the predicate vocabulary this engine models, but the
// underlying grammar library used here rejects such patterns at query
// compile time -- it requires #any-of?'s first argument to be a capture --
// so that shape never reaches onPredicate through this Compile.
func Compile(language *tree_sitter.Language, source string, onPredicate CustomPredicateFunc) (*Compiled, error) {
	if err := checkSourceSize(len(source)); err != nil {
		return nil, err
	}

	q, qerr := tree_sitter.NewQuery(language, source)
	if qerr != nil {
		return nil, mapQueryError(source, qerr)
	}

	textPredicates := make([][]TextPredicate, q.PatternCount())
	for i := range q.PatternCount() {
		for _, tp := range q.TextPredicates[i] {
			converted, err := convertTextPredicate(tp)
			if err != nil {
				return nil, &ParseError{
					Kind:     InvalidPredicate,
					Message:  err.Error(),
					Location: NewParserErrorLocation(source, int(q.StartByteForPattern(i)), 0),
				}
			}
			textPredicates[i] = append(textPredicates[i], converted)
		}

		for _, setting := range q.PropertySettings(i) {
			up := UserPredicate{Kind: KindSetProperty, Key: setting.Key, Val: setting.Value}
			if err := onPredicate(Pattern(i), up); err != nil {
				return nil, predicateLocationError(source, q, i, setting.Key, err)
			}
		}

		for _, pred := range q.PropertyPredicates(i) {
			up := UserPredicate{
				Kind:   KindIsPropertySet,
				Negate: !pred.Positive,
				Key:    pred.Property.Key,
				Val:    pred.Property.Value,
			}
			if err := onPredicate(Pattern(i), up); err != nil {
				return nil, predicateLocationError(source, q, i, pred.Property.Key, err)
			}
		}

		for _, general := range q.GeneralPredicates(i) {
			up := convertGeneralPredicate(general)
			if err := onPredicate(Pattern(i), up); err != nil {
				return nil, predicateLocationError(source, q, i, general.Operator, err)
			}
		}
	}

	return &Compiled{Query: q, textPredicates: textPredicates}, nil
}

func convertTextPredicate(tp tree_sitter.TextPredicateCapture) (TextPredicate, error) {
	switch tp.Type {
	case tree_sitter.TextPredicateTypeEqCapture:
		other, ok := tp.Value.(uint)
		if !ok {
			return TextPredicate{}, fmt.Errorf("eq? predicate: expected a capture value")
		}
		return TextPredicate{
			Capture:      Capture(tp.CaptureId),
			Kind:         EqCapture,
			OtherCapture: Capture(other),
			Negated:      !tp.Positive,
			MatchAll:     tp.MatchAllNodes,
		}, nil

	case tree_sitter.TextPredicateTypeEqString:
		str, _ := tp.Value.(string)
		return TextPredicate{
			Capture:     Capture(tp.CaptureId),
			Kind:        EqString,
			StringValue: str,
			Negated:     !tp.Positive,
			MatchAll:    tp.MatchAllNodes,
		}, nil

	case tree_sitter.TextPredicateTypeMatchString:
		re, ok := tp.Value.(*regexp.Regexp)
		if !ok {
			return TextPredicate{}, fmt.Errorf("match? predicate: expected a compiled regular expression")
		}
		compiled, err := compileRegex(re.String())
		if err != nil {
			return TextPredicate{}, fmt.Errorf("invalid regex %q: %w", re.String(), err)
		}
		return TextPredicate{
			Capture:  Capture(tp.CaptureId),
			Kind:     MatchRegex,
			Regex:    compiled,
			Negated:  !tp.Positive,
			MatchAll: tp.MatchAllNodes,
		}, nil

	case tree_sitter.TextPredicateTypeAnyString:
		values, _ := tp.Value.([]string)
		return TextPredicate{
			Capture:  Capture(tp.CaptureId),
			Kind:     AnyString,
			Values:   values,
			Negated:  !tp.Positive,
			MatchAll: tp.MatchAllNodes,
		}, nil
	}

	return TextPredicate{}, fmt.Errorf("unknown text predicate type %d", tp.Type)
}

func convertGeneralPredicate(g tree_sitter.QueryPredicate) UserPredicate {
	args := make([]PredicateArg, len(g.Args))
	for i, a := range g.Args {
		if a.CaptureId != nil {
			c := Capture(*a.CaptureId)
			args[i] = PredicateArg{Capture: &c}
		} else {
			args[i] = PredicateArg{String: a.String}
		}
	}
	return UserPredicate{Kind: KindOther, Other: Predicate{Name: g.Operator, Args: args}}
}

func predicateLocationError(source string, q *tree_sitter.Query, pattern uint, needle string, err error) error {
	patternStart := int(q.StartByteForPattern(pattern))
	offset := patternStart
	if idx := strings.Index(source[patternStart:], needle); idx >= 0 {
		offset = patternStart + idx
	}
	return &ParseError{
		Kind:     InvalidPredicate,
		Message:  err.Error(),
		Location: NewParserErrorLocation(source, offset, len([]rune(needle))),
	}
}

func mapQueryError(source string, qerr *tree_sitter.QueryError) error {
	switch qerr.Kind {
	case tree_sitter.QueryErrorNodeType:
		return &ParseError{
			Kind:     InvalidNodeType,
			Name:     qerr.Message,
			Location: NewParserErrorLocation(source, int(qerr.Offset), len([]rune(qerr.Message))),
		}
	case tree_sitter.QueryErrorField:
		return &ParseError{
			Kind:     InvalidFieldName,
			Name:     qerr.Message,
			Location: NewParserErrorLocation(source, int(qerr.Offset), len([]rune(qerr.Message))),
		}
	case tree_sitter.QueryErrorCapture:
		return &ParseError{
			Kind:     InvalidCaptureName,
			Name:     qerr.Message,
			Location: NewParserErrorLocation(source, int(qerr.Offset), len([]rune(qerr.Message))),
		}
	case tree_sitter.QueryErrorStructure:
		return &ParseError{
			Kind:     ImpossiblePattern,
			Location: NewParserErrorLocation(source, int(qerr.Offset), 0),
		}
	case tree_sitter.QueryErrorPredicate:
		return &ParseError{
			Kind:     InvalidPredicate,
			Message:  qerr.Message,
			Location: NewParserErrorLocation(source, int(qerr.Offset), 0),
		}
	default:
		if qerr.Message == "Unexpected EOF" {
			return &ParseError{
				Kind:     UnexpectedEof,
				Location: NewParserErrorLocation(source, int(qerr.Offset), 0),
			}
		}
		return &ParseError{
			Kind:     SyntaxError,
			Location: NewParserErrorLocation(source, int(qerr.Offset), 0),
		}
	}
}
