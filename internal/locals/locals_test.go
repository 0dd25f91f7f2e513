package locals

import (
	"testing"

	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

func rangeAt(start, end uint32) tree_sitter.Range {
	return tree_sitter.Range{StartByte: uint(start), EndByte: uint(end)}
}

func TestTracker_ResolvesDefinitionInSameScope(t *testing.T) {
	tr := NewTracker[int]()

	s, d := tr.AddDefinition("x", rangeAt(0, 1))
	tr.SetHighlight(s, d, 7)

	got := tr.LookupReference("x", 5)
	require.NotNil(t, got)
	require.Equal(t, 7, *got)
}

func TestTracker_ReferenceBeforeDefinitionDoesNotResolve(t *testing.T) {
	tr := NewTracker[int]()

	s, d := tr.AddDefinition("x", rangeAt(10, 11))
	tr.SetHighlight(s, d, 7)

	require.Nil(t, tr.LookupReference("x", 2))
}

func TestTracker_InheritingScopeFallsThroughToParent(t *testing.T) {
	tr := NewTracker[int]()
	s, d := tr.AddDefinition("x", rangeAt(0, 1))
	tr.SetHighlight(s, d, 1)

	tr.PushScope(rangeAt(5, 20), true)

	got := tr.LookupReference("x", 12)
	require.NotNil(t, got)
	require.Equal(t, 1, *got)
}

func TestTracker_NonInheritingScopeBlocksParentLookup(t *testing.T) {
	tr := NewTracker[int]()
	s, d := tr.AddDefinition("x", rangeAt(0, 1))
	tr.SetHighlight(s, d, 1)

	tr.PushScope(rangeAt(5, 20), false)

	require.Nil(t, tr.LookupReference("x", 12))
}

func TestTracker_InnerDefinitionShadowsOuter(t *testing.T) {
	tr := NewTracker[int]()
	s, d := tr.AddDefinition("x", rangeAt(0, 1))
	tr.SetHighlight(s, d, 1)

	tr.PushScope(rangeAt(5, 20), true)
	s2, d2 := tr.AddDefinition("x", rangeAt(6, 7))
	tr.SetHighlight(s2, d2, 2)

	got := tr.LookupReference("x", 15)
	require.NotNil(t, got)
	require.Equal(t, 2, *got)
}

func TestTracker_ClosePastPopsEndedScopes(t *testing.T) {
	tr := NewTracker[int]()
	tr.PushScope(rangeAt(0, 10), false)
	s, d := tr.AddDefinition("x", rangeAt(1, 2))
	tr.SetHighlight(s, d, 9)

	tr.ClosePast(11)

	require.Nil(t, tr.LookupReference("x", 12))
}

func TestTracker_DefinitionsSurviveAcrossAppends(t *testing.T) {
	// Regression test: recording several definitions in the same scope
	// must not lose earlier ones, even though append may reallocate the
	// backing array.
	tr := NewTracker[int]()
	for i := range 50 {
		s, d := tr.AddDefinition("v", rangeAt(uint32(i), uint32(i)+1))
		tr.SetHighlight(s, d, i)
	}

	got := tr.LookupReference("v", 100)
	require.NotNil(t, got)
	require.Equal(t, 49, *got)
}
