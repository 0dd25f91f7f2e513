package query

import (
	"github.com/nelkk/tree-house-go/internal/input"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Cursor executes a Compiled query over a subtree, yielding a stream of
// matches filtered by this engine's own Predicate Engine, on top of the
// filtering the grammar library's cursor already applies, so MatchRegex predicates
// run against this package's regexp2-backed Regex and EqString/AnyString
// predicates run against the chunked input.Buffer the rest of this module
// shares.
type Cursor struct {
	inner *tree_sitter.QueryCursor
}

// NewCursor wraps a library query cursor. The cursor is restartable: the
// same *Cursor can be reused across many (compiled, node) pairs by calling
// Captures/Matches again.
func NewCursor(inner *tree_sitter.QueryCursor) *Cursor {
	return &Cursor{inner: inner}
}

// Raw returns the wrapped library cursor for callers that need primitives
// this package doesn't otherwise expose, such as SetByteRange.
func (c *Cursor) Raw() *tree_sitter.QueryCursor {
	return c.inner
}

// Captures runs compiled's query over node, yielding (match, captureIndex)
// pairs. A match is skipped -- and its resources released -- the moment one
// of its pattern's text predicates fails against buf.
func (c *Cursor) Captures(compiled *Compiled, node *tree_sitter.Node, buf *input.Buffer) *CaptureSeq {
	return &CaptureSeq{
		raw:      c.inner.Captures(compiled.Query, node, buf.Source()),
		compiled: compiled,
		buf:      buf,
	}
}

// Matches runs compiled's query over node, yielding whole matches. Used for
// the combined-injections query, which carries no text predicates of its
// own to filter.
func (c *Cursor) Matches(compiled *Compiled, node *tree_sitter.Node, buf *input.Buffer) *MatchSeq {
	return &MatchSeq{raw: c.inner.Matches(compiled.Query, node, buf.Source())}
}

// CaptureSeq is a predicate-filtered stream of query captures.
type CaptureSeq struct {
	raw      tree_sitter.QueryCaptures
	compiled *Compiled
	buf      *input.Buffer
}

// Next returns the next capture whose match satisfies every one of its
// pattern's text predicates, or (nil, 0) once the stream is exhausted.
func (s *CaptureSeq) Next() (*tree_sitter.QueryMatch, uint) {
	for {
		m, idx := s.raw.Next()
		if m == nil {
			return nil, 0
		}
		if !s.compiled.Satisfied(s.buf, *m) {
			m.Remove()
			continue
		}
		return m, idx
	}
}

// MatchSeq is an unfiltered stream of whole query matches.
type MatchSeq struct {
	raw tree_sitter.QueryMatches
}

// Next returns the next match, or nil once the stream is exhausted.
func (s *MatchSeq) Next() *tree_sitter.QueryMatch {
	return s.raw.Next()
}
