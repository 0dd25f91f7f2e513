// Package locals tracks lexical scopes and name bindings while a single
// highlight layer's captures are walked in document order, resolving
// `local.reference` captures back to the `local.definition` that introduced
// the name.
package locals

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// Definition is one named local binding recorded within a scope. Highlight
// is nil until the highlighter has decided what, if anything, the
// definition's own node should be highlighted as.
type Definition[H any] struct {
	Name      string
	Range     tree_sitter.Range
	Highlight *H
}

// Scope is one lexical scope: the byte range it covers, whether a
// reference that fails to resolve within it may continue searching an
// enclosing scope, and the definitions introduced directly within it.
type Scope[H any] struct {
	Inherits bool
	Range    tree_sitter.Range
	Defs     []Definition[H]
}

// Tracker maintains the stack of currently open lexical scopes for one
// highlight layer. A multi-layer highlighter keeps one Tracker per layer,
// since injected documents scope independently of their parent.
type Tracker[H any] struct {
	stack []Scope[H]
}

// rootRange spans the whole document so the root scope never closes
// while there is still input left to process.
func rootRange() tree_sitter.Range {
	return tree_sitter.Range{
		StartByte: 0,
		StartPoint: tree_sitter.Point{
			Row:    0,
			Column: 0,
		},
		EndByte: ^uint(0),
		EndPoint: tree_sitter.Point{
			Row:    ^uint(0),
			Column: ^uint(0),
		},
	}
}

// NewTracker returns a Tracker seeded with one non-inheriting root scope
// spanning the entire document.
func NewTracker[H any]() *Tracker[H] {
	return &Tracker[H]{
		stack: []Scope[H]{{Inherits: false, Range: rootRange()}},
	}
}

// ClosePast pops any scopes, other than the root, that ended strictly
// before start. Call this before interpreting a capture at position start
// so the scope stack reflects only scopes that are still open there.
func (t *Tracker[H]) ClosePast(start uint) {
	for len(t.stack) > 1 && start > t.stack[len(t.stack)-1].Range.EndByte {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// PushScope opens a new scope covering r. inherits controls whether a
// reference inside this scope may resolve to a definition in an
// enclosing scope once this scope itself has no matching definition.
func (t *Tracker[H]) PushScope(r tree_sitter.Range, inherits bool) {
	t.stack = append(t.stack, Scope[H]{Inherits: inherits, Range: r})
}

// AddDefinition records name as defined at r within the innermost open
// scope. The returned coordinates identify the stored definition so the
// caller can fill in its highlight once that is known, via SetHighlight.
func (t *Tracker[H]) AddDefinition(name string, r tree_sitter.Range) (scope, def int) {
	top := len(t.stack) - 1
	t.stack[top].Defs = append(t.stack[top].Defs, Definition[H]{Name: name, Range: r})
	return top, len(t.stack[top].Defs) - 1
}

// SetHighlight fills in the highlight for a definition previously returned
// by AddDefinition. Out-of-range coordinates (the scope having since been
// closed) are silently ignored.
func (t *Tracker[H]) SetHighlight(scope, def int, h H) {
	if scope < 0 || scope >= len(t.stack) {
		return
	}
	if def < 0 || def >= len(t.stack[scope].Defs) {
		return
	}
	t.stack[scope].Defs[def].Highlight = &h
}

// LookupReference resolves name as seen at byte position pos, walking the
// scope stack from innermost to outermost. A definition only matches if it
// ends at or before pos, since a reference cannot see a binding that has
// not been introduced yet. The walk stops at the first non-inheriting
// scope that does not contain a match.
func (t *Tracker[H]) LookupReference(name string, pos uint) *H {
	for i := len(t.stack) - 1; i >= 0; i-- {
		scope := t.stack[i]
		for j := len(scope.Defs) - 1; j >= 0; j-- {
			def := scope.Defs[j]
			if def.Name == name && pos >= def.Range.EndByte {
				return def.Highlight
			}
		}
		if !scope.Inherits {
			break
		}
	}
	return nil
}
