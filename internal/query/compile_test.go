package query

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/nelkk/tree-house-go/internal/input"
)

func goLanguage() *tree_sitter.Language {
	return tree_sitter.NewLanguage(tree_sitter_go.Language())
}

func TestCompile_TextPredicate_EqString(t *testing.T) {
	source := []byte(`package main`)
	lang := goLanguage()

	compiled, err := Compile(lang, `((package_identifier) @pkg (#eq? @pkg "main"))`, func(Pattern, UserPredicate) error {
		return nil
	})
	require.NoError(t, err)

	parser := tree_sitter.NewParser()
	require.NoError(t, parser.SetLanguage(lang))
	tree := parser.Parse(source, nil)
	defer tree.Close()

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	buf := input.NewBuffer(source)
	matches := cursor.Matches(compiled.Query, tree.RootNode(), source)
	var satisfiedCount int
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		if compiled.Satisfied(buf, *match) {
			satisfiedCount++
		}
	}
	require.Equal(t, 1, satisfiedCount)
}

func TestCompile_CustomPredicate_SetProperty(t *testing.T) {
	lang := goLanguage()

	var captured []UserPredicate
	_, err := Compile(lang, `((package_clause) @pkg (#set! "kind" "package"))`, func(_ Pattern, up UserPredicate) error {
		captured = append(captured, up)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, captured, 1)
	require.Equal(t, KindSetProperty, captured[0].Kind)
	require.Equal(t, "kind", captured[0].Key)
	require.NotNil(t, captured[0].Val)
	require.Equal(t, "package", *captured[0].Val)
}

func TestCompile_InvalidNodeType(t *testing.T) {
	lang := goLanguage()

	_, err := Compile(lang, `(definitely_not_a_real_node)`, func(Pattern, UserPredicate) error {
		return nil
	})
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, InvalidNodeType, parseErr.Kind)
}

func TestCompile_CustomPredicateRejection(t *testing.T) {
	lang := goLanguage()

	_, err := Compile(lang, `((package_clause) @pkg (#set! "kind" "package"))`, func(_ Pattern, up UserPredicate) error {
		return errors.New("unknown property 'kind'")
	})
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, InvalidPredicate, parseErr.Kind)
}

func TestCompile_UnexpectedEof(t *testing.T) {
	lang := goLanguage()

	// Missing closing paren: the query truncates before the pattern can
	// close, which the grammar library reports with its own "Unexpected
	// EOF" message rather than a pointed-at-a-line syntax error.
	_, err := Compile(lang, `(identifier`, func(Pattern, UserPredicate) error {
		return nil
	})
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, UnexpectedEof, parseErr.Kind)
}

func TestCheckSourceSize(t *testing.T) {
	require.NoError(t, checkSourceSize(math.MaxInt32))
	require.ErrorIs(t, checkSourceSize(math.MaxInt32+1), ErrSourceTooLarge)
}
