package highlight

import (
	"slices"

	"github.com/nelkk/tree-house-go/internal/query"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

type peekedQueryCapture struct {
	match tree_sitter.QueryMatch
	index uint
	ok    bool
}

// queryCapturesIter wraps a predicate-filtered query.CaptureSeq so the
// layer merge in iterLayer.sortKey can peek the next capture's start byte
// without consuming it.
type queryCapturesIter struct {
	captures *query.CaptureSeq
	peeked   *peekedQueryCapture
}

func newQueryCapturesIter(captures *query.CaptureSeq) *queryCapturesIter {
	return &queryCapturesIter{captures: captures}
}

func (q *queryCapturesIter) advance() (tree_sitter.QueryMatch, uint, bool) {
	match, index := q.captures.Next()
	if match == nil {
		return tree_sitter.QueryMatch{}, index, false
	}

	match.Captures = slices.Clone(match.Captures)
	return *match, index, true
}

func (q *queryCapturesIter) Next() (tree_sitter.QueryMatch, uint, bool) {
	if q.peeked != nil {
		peeked := q.peeked
		q.peeked = nil
		return peeked.match, peeked.index, peeked.ok
	}
	return q.advance()
}

func (q *queryCapturesIter) peek() (tree_sitter.QueryMatch, uint, bool) {
	if q.peeked == nil {
		match, index, ok := q.advance()
		q.peeked = &peekedQueryCapture{match: match, index: index, ok: ok}
	}
	return q.peeked.match, q.peeked.index, q.peeked.ok
}
