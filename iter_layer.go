package highlight

import (
	"context"
	"fmt"

	"github.com/nelkk/tree-house-go/internal/highlight"
	"github.com/nelkk/tree-house-go/internal/input"
	"github.com/nelkk/tree-house-go/internal/locals"
	"github.com/nelkk/tree-house-go/internal/query"
	"github.com/nelkk/tree-house-go/types"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// highlightQueueItem is a language layer discovered by a combined-injection
// match, queued for parsing once the layer that found it has finished its
// own setup.
type highlightQueueItem struct {
	config *types.Configuration
	depth  uint
	ranges []tree_sitter.Range
}

// injectionItem accumulates the content nodes of one combined injection
// pattern across all of its matches, since a combined injection's text is
// the logical concatenation of every sibling range sharing its layer.
type injectionItem struct {
	languageName    string
	nodes           []tree_sitter.Node
	includeChildren bool
}

// sortKey orders layers for the merge in [iterator.sortLayers]: earlier
// byte offset first; at equal offset, an end boundary before a start
// boundary (closing a span takes precedence over opening the next one);
// at equal offset and boundary kind, the more deeply nested layer first,
// since an injection's own captures should be exhausted before its parent
// resumes.
type sortKey struct {
	offset uint
	start  bool
	depth  int
}

func (k sortKey) compare(other sortKey) int {
	if k.offset != other.offset {
		if k.offset < other.offset {
			return -1
		}
		return 1
	}
	if k.start != other.start {
		if !k.start {
			return -1
		}
		return 1
	}
	if k.depth != other.depth {
		if k.depth < other.depth {
			return -1
		}
		return 1
	}
	return 0
}

func (k sortKey) greaterThan(other sortKey) bool { return k.compare(other) == 1 }
func (k sortKey) lessThan(other sortKey) bool    { return k.compare(other) == -1 }

// iterLayer is the composer's live view of one parsed layer: its tree, the
// predicate-filtered capture stream driving it, the stack of highlight ends
// still open within it, and its own lexical-scope tracker (locals resolve
// independently per layer; an injected document does not see its parent's
// local variables).
type iterLayer struct {
	Tree              *tree_sitter.Tree
	Cursor            *tree_sitter.QueryCursor
	Config            *types.Configuration
	HighlightEndStack []uint
	Scopes            *locals.Tracker[types.CaptureIndex]
	Captures          *queryCapturesIter
	Ranges            []tree_sitter.Range
	Depth             uint
}

func (l *iterLayer) sortKey() *sortKey {
	depth := -int(l.Depth)

	var nextStart *uint
	if match, index, ok := l.Captures.peek(); ok {
		startByte := match.Captures[index].Node.StartByte()
		nextStart = &startByte
	}

	var nextEnd *uint
	if len(l.HighlightEndStack) > 0 {
		endByte := l.HighlightEndStack[len(l.HighlightEndStack)-1]
		nextEnd = &endByte
	}

	switch {
	case nextStart != nil && nextEnd != nil:
		if *nextStart < *nextEnd {
			return &sortKey{offset: *nextStart, start: true, depth: depth}
		}
		return &sortKey{offset: *nextEnd, start: false, depth: depth}
	case nextStart != nil:
		return &sortKey{offset: *nextStart, start: true, depth: depth}
	case nextEnd != nil:
		return &sortKey{offset: *nextEnd, start: false, depth: depth}
	default:
		return nil
	}
}

// newLayers parses cfg's grammar over ranges and every layer reachable from
// it through combined injections, breadth-first, returning one *iterLayer
// per layer that produced at least one capture. parentName is the layer
// that triggered this call's own language name, used to resolve
// `#set! injection.parent`.
func newLayers(
	ctx context.Context,
	hl *Highlighter,
	source []byte,
	buf *input.Buffer,
	parentName string,
	injectionCallback types.InjectionCallback,
	cfg *types.Configuration,
	depth uint,
	ranges []tree_sitter.Range,
) ([]*iterLayer, error) {
	var result []*iterLayer
	queue := []highlightQueueItem{{config: cfg, depth: depth, ranges: ranges}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		cfg, depth, ranges = item.config, item.depth, item.ranges

		if err := hl.inner.Parser.SetIncludedRanges(ranges); err != nil {
			continue
		}
		if err := hl.inner.Parser.SetLanguage(cfg.Language); err != nil {
			return nil, fmt.Errorf("error setting language %q: %w", cfg.LanguageName, err)
		}
		tree := hl.inner.Parser.ParseCtx(ctx, source, nil)

		raw := hl.inner.PopCursor()
		cursor := query.NewCursor(raw)

		if cfg.CombinedInjectionsQuery != nil {
			injectionsByPattern := make([]injectionItem, cfg.CombinedInjectionsQuery.Query.PatternCount())

			matches := cursor.Matches(cfg.CombinedInjectionsQuery, tree.RootNode(), buf)
			for {
				match := matches.Next()
				if match == nil {
					break
				}
				languageName, contentNode, includeChildren := highlight.InjectionForMatch(*cfg, parentName, cfg.CombinedInjectionsQuery.Query, *match, source)
				if languageName != "" {
					injectionsByPattern[match.PatternIndex].languageName = languageName
				}
				if contentNode != nil {
					injectionsByPattern[match.PatternIndex].nodes = append(injectionsByPattern[match.PatternIndex].nodes, *contentNode)
				}
				injectionsByPattern[match.PatternIndex].includeChildren = includeChildren
			}

			for _, injection := range injectionsByPattern {
				if injection.languageName == "" || len(injection.nodes) == 0 {
					continue
				}
				nextConfig := injectionCallback(injection.languageName)
				if nextConfig == nil {
					continue
				}
				nextRanges := highlight.IntersectRanges(ranges, injection.nodes, injection.includeChildren)
				if len(nextRanges) > 0 {
					queue = append(queue, highlightQueueItem{config: nextConfig, depth: depth + 1, ranges: nextRanges})
				}
			}
		}

		captures := newQueryCapturesIter(cursor.Captures(cfg.Query, tree.RootNode(), buf))
		if _, _, ok := captures.peek(); !ok {
			hl.inner.PushCursor(raw)
			continue
		}

		result = append(result, &iterLayer{
			Tree:     tree,
			Cursor:   raw,
			Config:   cfg,
			Scopes:   locals.NewTracker[types.CaptureIndex](),
			Captures: captures,
			Ranges:   ranges,
			Depth:    depth,
		})
	}

	return result, nil
}
