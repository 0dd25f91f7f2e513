package highlight

import (
	"fmt"
	"slices"

	"github.com/nelkk/tree-house-go/internal/highlight"
	"github.com/nelkk/tree-house-go/internal/query"
	"github.com/nelkk/tree-house-go/language"
	"github.com/nelkk/tree-house-go/types"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// NewConfiguration compiles lang's three query sources (injections, locals,
// highlights, concatenated in that order so pattern indices fall into
// contiguous ranges) into a [types.Configuration]. Call [types.Configuration.Configure]
// afterwards with the embedder's recognised highlight names before using
// the configuration to highlight anything.
func NewConfiguration(lang language.Language) (*types.Configuration, error) {
	injectionQuery := lang.InjectionQuery
	localsQuery := lang.LocalsQuery
	highlightsQuery := lang.HighlightsQuery
	grammar := lang.Lang

	querySource := slices.Concat(injectionQuery, localsQuery, highlightsQuery)
	localsQueryOffset := uint(len(injectionQuery))
	highlightsQueryOffset := uint(len(injectionQuery) + len(localsQuery))

	var nonLocalVariablePatterns []bool

	onPredicate := func(pattern query.Pattern, up query.UserPredicate) error {
		if up.Kind == query.KindIsPropertySet && up.Negate && up.Key == highlight.CaptureLocal {
			for uint(len(nonLocalVariablePatterns)) <= uint(pattern) {
				nonLocalVariablePatterns = append(nonLocalVariablePatterns, false)
			}
			nonLocalVariablePatterns[pattern] = true
		}
		return nil
	}

	compiled, err := query.Compile(grammar, string(querySource), onPredicate)
	if err != nil {
		return nil, fmt.Errorf("error creating query: %w", err)
	}

	for uint(len(nonLocalVariablePatterns)) < compiled.Query.PatternCount() {
		nonLocalVariablePatterns = append(nonLocalVariablePatterns, false)
	}

	localsPatternIndex := uint(0)
	highlightsPatternIndex := uint(0)
	for i := range compiled.Query.PatternCount() {
		patternOffset := compiled.Query.StartByteForPattern(i)
		if patternOffset < localsQueryOffset {
			localsPatternIndex++
		}
		if patternOffset < highlightsQueryOffset {
			highlightsPatternIndex++
		}
	}

	combinedInjectionsQuery, err := query.Compile(grammar, string(injectionQuery), func(query.Pattern, query.UserPredicate) error { return nil })
	if err != nil {
		return nil, fmt.Errorf("error creating combined injections query: %w", err)
	}
	var hasCombinedQueries bool
	for i := range localsPatternIndex {
		settings := combinedInjectionsQuery.Query.PropertySettings(i)
		if slices.ContainsFunc(settings, func(setting tree_sitter.QueryProperty) bool {
			return setting.Key == highlight.CaptureInjectionCombined
		}) {
			hasCombinedQueries = true
			compiled.Query.DisablePattern(i)
		} else {
			combinedInjectionsQuery.Query.DisablePattern(i)
		}
	}
	if !hasCombinedQueries {
		combinedInjectionsQuery = nil
	}

	var (
		injectionContentCaptureIndex  *uint
		injectionLanguageCaptureIndex *uint
		localDefCaptureIndex          *uint
		localDefValueCaptureIndex     *uint
		localRefCaptureIndex          *uint
		localScopeCaptureIndex        *uint
	)

	for i, captureName := range compiled.Query.CaptureNames() {
		ui := uint(i)
		switch captureName {
		case "injection.content":
			injectionContentCaptureIndex = &ui
		case "injection.language":
			injectionLanguageCaptureIndex = &ui
		case "local.definition":
			localDefCaptureIndex = &ui
		case "local.definition-value":
			localDefValueCaptureIndex = &ui
		case "local.reference":
			localRefCaptureIndex = &ui
		case "local.scope":
			localScopeCaptureIndex = &ui
		}
	}

	return &types.Configuration{
		Language:                      grammar,
		LanguageName:                  lang.Name,
		Query:                         compiled,
		CombinedInjectionsQuery:       combinedInjectionsQuery,
		LocalsPatternIndex:            localsPatternIndex,
		HighlightsPatternIndex:        highlightsPatternIndex,
		NonLocalVariablePatterns:      nonLocalVariablePatterns,
		InjectionContentCaptureIndex:  injectionContentCaptureIndex,
		InjectionLanguageCaptureIndex: injectionLanguageCaptureIndex,
		LocalScopeCaptureIndex:        localScopeCaptureIndex,
		LocalDefCaptureIndex:          localDefCaptureIndex,
		LocalDefValueCaptureIndex:     localDefValueCaptureIndex,
		LocalRefCaptureIndex:          localRefCaptureIndex,
	}, nil
}
