package types

import (
	"slices"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nelkk/tree-house-go/internal/query"
)

// CaptureIndex represents the index of a capture name, resolved against an
// embedder's recognised highlight names.
type CaptureIndex uint

// NoHighlight is the sentinel CaptureIndex meaning "no highlight". A captured
// node whose name never resolved against the configured theme has a nil
// HighlightIndices slot and is not highlighted; it is not given this value.
const NoHighlight = CaptureIndex(^uint(0))

// Configuration bundles a compiled highlights/injections/locals query
// together with the capture-index bookkeeping the composer needs to
// interpret it: which captures carry injection metadata, which carry
// local-scoping metadata, and (once Configure has been called) which
// captures resolve to which entry of an embedder's theme.
type Configuration struct {
	Language                *tree_sitter.Language
	LanguageName            string
	Query                   *query.Compiled
	CombinedInjectionsQuery *query.Compiled

	LocalsPatternIndex     uint
	HighlightsPatternIndex uint

	HighlightIndices         []*CaptureIndex
	NonLocalVariablePatterns []bool

	InjectionContentCaptureIndex  *uint
	InjectionLanguageCaptureIndex *uint
	LocalScopeCaptureIndex        *uint
	LocalDefCaptureIndex          *uint
	LocalDefValueCaptureIndex     *uint
	LocalRefCaptureIndex          *uint
}

// InjectionCallback is called when a language injection is found to load the configuration for the injected language.
type InjectionCallback func(languageName string) *Configuration

// AttributeCallback is a callback function that returns the html element attributes for a highlight span.
// This can be anything from classes, ids, or inline styles.
type AttributeCallback func(h CaptureIndex, languageName string) string

// StandardCaptureNames is the conventional vocabulary of highlight capture
// names shared across the tree-sitter ecosystem's highlight queries
// (`@function`, `@keyword`, `@string.escape`, and so on). It is not
// required by anything in this package; it exists as a reference list for
// consumers authoring new highlight queries and checking them with
// NonconformantCaptureNames.
var StandardCaptureNames = []string{
	"attribute",
	"boolean",
	"carriage-return",
	"comment",
	"comment.documentation",
	"constant",
	"constant.builtin",
	"constructor",
	"constructor.builtin",
	"embedded",
	"error",
	"escape",
	"function",
	"function.builtin",
	"keyword",
	"label",
	"markup",
	"module",
	"number",
	"operator",
	"property",
	"property.builtin",
	"punctuation",
	"punctuation.bracket",
	"punctuation.delimiter",
	"punctuation.special",
	"string",
	"string.escape",
	"string.regexp",
	"string.special",
	"tag",
	"type",
	"type.builtin",
	"variable",
	"variable.builtin",
	"variable.parameter",
}

// Names returns the configuration's query's capture names in capture-index
// order.
func (c *Configuration) Names() []string {
	return c.Query.Query.CaptureNames()
}

// NonconformantCaptureNames reports the capture names used by the
// configuration's query that do not resolve, even after stripping
// dot-suffixes, against recognisedNames. Names starting with "_" are
// conventionally private/internal captures and are never reported.
func (c *Configuration) NonconformantCaptureNames(recognisedNames []string) []string {
	var nonconformant []string
	for _, name := range c.Names() {
		if strings.HasPrefix(name, "_") {
			continue
		}

		candidate := name
		conforms := false
		for {
			if slices.Contains(recognisedNames, candidate) {
				conforms = true
				break
			}
			lastDot := strings.LastIndex(candidate, ".")
			if lastDot == -1 {
				break
			}
			candidate = candidate[:lastDot]
		}
		if !conforms {
			nonconformant = append(nonconformant, name)
		}
	}
	return nonconformant
}

// Configure resolves the configuration's query's capture names against
// recognisedNames, the embedder's theme, populating HighlightIndices. A
// capture name resolves to the first prefix of itself (stripping one
// dot-suffix at a time) found in recognisedNames; a name with no matching
// prefix leaves its slot nil, meaning captures of that name are never
// highlighted.
//
// Configure replaces HighlightIndices wholesale rather than mutating it in
// place, so it is safe to call again with a different theme between
// highlight passes without disturbing a pass already reading the old
// slice.
func (c *Configuration) Configure(recognisedNames []string) {
	names := c.Names()
	highlightIndices := make([]*CaptureIndex, len(names))

	for i, captureName := range names {
		candidate := captureName
		for {
			j := slices.Index(recognisedNames, candidate)
			if j != -1 {
				index := CaptureIndex(j)
				highlightIndices[i] = &index
				break
			}

			lastDot := strings.LastIndex(candidate, ".")
			if lastDot == -1 {
				break
			}
			candidate = candidate[:lastDot]
		}
	}

	c.HighlightIndices = highlightIndices
}
