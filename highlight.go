package highlight

import (
	"context"
	"iter"
	"slices"

	"github.com/nelkk/tree-house-go/internal/events"
	"github.com/nelkk/tree-house-go/internal/highlight"
	"github.com/nelkk/tree-house-go/internal/input"
	"github.com/nelkk/tree-house-go/types"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Highlighter runs highlight passes over source code. It owns a
// tree-sitter parser and a pool of reusable query cursors, so it is
// cheaper to keep one around across many calls to Highlight than to
// construct a fresh one each time. It is not safe for concurrent use.
type Highlighter struct {
	inner *highlight.Highlighter
}

// New returns a ready-to-use Highlighter.
func New() *Highlighter {
	return &Highlighter{inner: &highlight.Highlighter{Parser: tree_sitter.NewParser()}}
}

// highlightRange remembers the span most recently given a highlight, so a
// later pattern matching the exact same span from a shallower layer can be
// skipped in favor of the one a deeper, more specific layer already chose.
type highlightRange struct {
	start uint
	end   uint
	depth uint
}

// iterator drives one Highlight call's merge across every open layer,
// producing events in document order.
type iterator struct {
	ctx                context.Context
	source             []byte
	buf                *input.Buffer
	languageName       string
	byteOffset         uint
	highlighter        *Highlighter
	injectionCallback  types.InjectionCallback
	layers             []*iterLayer
	nextEvents         []events.Event
	lastHighlightRange *highlightRange
	lastLayer          *iterLayer
}

func (it *iterator) emitEvents(offset uint, evs ...events.Event) (events.Event, error) {
	var result events.Event
	if it.byteOffset < offset {
		result = events.EventSource{StartByte: it.byteOffset, EndByte: offset}
		it.byteOffset = offset
		it.nextEvents = append(it.nextEvents, evs...)
	} else {
		if len(evs) > 1 {
			it.nextEvents = append(it.nextEvents, evs[1:]...)
		}
		result = evs[0]
	}
	it.sortLayers()
	return result, nil
}

func (it *iterator) next() (events.Event, error) {
main:
	for {
		if len(it.nextEvents) > 0 {
			ev := it.nextEvents[0]
			it.nextEvents = it.nextEvents[1:]
			return ev, nil
		}

		select {
		case <-it.ctx.Done():
			return nil, it.ctx.Err()
		default:
		}

		// No layer has any more boundaries: flush whatever source remains
		// and stop.
		if len(it.layers) == 0 {
			if it.byteOffset < uint(len(it.source)) {
				ev := events.EventSource{StartByte: it.byteOffset, EndByte: uint(len(it.source))}
				it.byteOffset = uint(len(it.source))
				return ev, nil
			}
			return nil, nil
		}

		layer := it.layers[0]
		if layer != it.lastLayer {
			var evs []events.Event
			if it.lastLayer != nil {
				evs = append(evs, events.EventLayerEnd{})
			}
			it.lastLayer = layer
			return it.emitEvents(it.byteOffset, append(evs, events.EventLayerStart{LanguageName: layer.Config.LanguageName})...)
		}

		var nextCaptureRange tree_sitter.Range
		if nextMatch, captureIndex, ok := layer.Captures.peek(); ok {
			nextCapture := nextMatch.Captures[captureIndex]
			nextCaptureRange = nextCapture.Node.Range()

			if len(layer.HighlightEndStack) > 0 {
				endByte := layer.HighlightEndStack[len(layer.HighlightEndStack)-1]
				if endByte <= nextCaptureRange.StartByte {
					layer.HighlightEndStack = layer.HighlightEndStack[:len(layer.HighlightEndStack)-1]
					return it.emitEvents(endByte, events.EventCaptureEnd{})
				}
			}
		} else {
			if len(layer.HighlightEndStack) > 0 {
				endByte := layer.HighlightEndStack[len(layer.HighlightEndStack)-1]
				layer.HighlightEndStack = layer.HighlightEndStack[:len(layer.HighlightEndStack)-1]
				return it.emitEvents(endByte, events.EventCaptureEnd{})
			}
			return it.emitEvents(uint(len(it.source)), nil)
		}

		match, captureIndex, _ := layer.Captures.Next()
		capture := match.Captures[captureIndex]

		// An injection pattern: resolve it and queue any new layer it names.
		if match.PatternIndex < layer.Config.LocalsPatternIndex {
			languageName, contentNode, includeChildren := highlight.InjectionForMatch(*layer.Config, it.languageName, layer.Config.Query.Query, match, it.source)
			match.Remove()

			if languageName != "" && contentNode != nil {
				newConfig := it.injectionCallback(languageName)
				if newConfig != nil {
					ranges := highlight.IntersectRanges(layer.Ranges, []tree_sitter.Node{*contentNode}, includeChildren)
					if len(ranges) > 0 {
						newLayers, err := newLayers(it.ctx, it.highlighter, it.source, it.buf, it.languageName, it.injectionCallback, newConfig, layer.Depth+1, ranges)
						if err != nil {
							return nil, err
						}
						for _, nl := range newLayers {
							it.insertLayer(nl)
						}
					}
				}
			}

			it.sortLayers()
			continue main
		}

		layer.Scopes.ClosePast(nextCaptureRange.StartByte)

		// A locals pattern: record scopes/definitions/references without
		// emitting anything of its own.
		var referenceHighlight *types.CaptureIndex
		var defScope, defIndex int
		var hasDef bool
		for match.PatternIndex < layer.Config.HighlightsPatternIndex {
			switch {
			case layer.Config.LocalScopeCaptureIndex != nil && uint(capture.Index) == *layer.Config.LocalScopeCaptureIndex:
				hasDef = false
				inherits := true
				for _, prop := range layer.Config.Query.Query.PropertySettings(match.PatternIndex) {
					if prop.Key == highlight.CaptureLocalScopeInherits {
						inherits = prop.Value != nil && *prop.Value == "true"
					}
				}
				layer.Scopes.PushScope(nextCaptureRange, inherits)

			case layer.Config.LocalDefCaptureIndex != nil && uint(capture.Index) == *layer.Config.LocalDefCaptureIndex:
				referenceHighlight = nil
				hasDef = false

				var valueRange tree_sitter.Range
				for _, matchCapture := range match.Captures {
					if layer.Config.LocalDefValueCaptureIndex != nil && uint(matchCapture.Index) == *layer.Config.LocalDefValueCaptureIndex {
						valueRange = matchCapture.Node.Range()
					}
				}

				if len(it.source) > int(nextCaptureRange.StartByte) && len(it.source) > int(valueRange.EndByte) {
					name := string(it.source[nextCaptureRange.StartByte:nextCaptureRange.EndByte])
					defScope, defIndex = layer.Scopes.AddDefinition(name, nextCaptureRange)
					hasDef = true
				}

			case layer.Config.LocalRefCaptureIndex != nil && uint(capture.Index) == *layer.Config.LocalRefCaptureIndex && !hasDef:
				referenceHighlight = nil
				if len(it.source) > int(nextCaptureRange.StartByte) && len(it.source) > int(nextCaptureRange.EndByte) {
					name := string(it.source[nextCaptureRange.StartByte:nextCaptureRange.EndByte])
					referenceHighlight = layer.Scopes.LookupReference(name, nextCaptureRange.StartByte)
				}
			}

			if nextMatch, nextCaptureIndex, ok := layer.Captures.peek(); ok {
				nextCapture := nextMatch.Captures[nextCaptureIndex]
				if nextCapture.Node.Equals(capture.Node) {
					capture = nextCapture
					match, _, _ = layer.Captures.Next()
					continue
				}
			}

			it.sortLayers()
			continue main
		}

		// A highlight pattern from a shallower layer for a span a deeper
		// layer has already highlighted: skip it.
		if it.lastHighlightRange != nil {
			last := *it.lastHighlightRange
			if nextCaptureRange.StartByte == last.start && nextCaptureRange.EndByte == last.end && layer.Depth < last.depth {
				it.sortLayers()
				continue main
			}
		}

		for {
			nextMatch, nextCaptureIndex, ok := layer.Captures.peek()
			if !ok {
				break
			}
			nextCapture := nextMatch.Captures[nextCaptureIndex]
			if !nextCapture.Node.Equals(capture.Node) {
				break
			}

			followingMatch, _, _ := layer.Captures.Next()
			if hasDef || referenceHighlight != nil && layer.Config.NonLocalVariablePatterns[followingMatch.PatternIndex] {
				continue
			}

			match.Remove()
			capture = nextCapture
			match = followingMatch
		}

		currentHighlight := layer.Config.HighlightIndices[uint(capture.Index)]

		if hasDef && currentHighlight != nil {
			layer.Scopes.SetHighlight(defScope, defIndex, *currentHighlight)
		}

		resolved := referenceHighlight
		if resolved == nil {
			resolved = currentHighlight
		}
		if resolved != nil {
			it.lastHighlightRange = &highlightRange{start: nextCaptureRange.StartByte, end: nextCaptureRange.EndByte, depth: layer.Depth}
			layer.HighlightEndStack = append(layer.HighlightEndStack, nextCaptureRange.EndByte)
			return it.emitEvents(nextCaptureRange.StartByte, events.EventCaptureStart{Highlight: *resolved})
		}

		it.sortLayers()
	}
}

// sortLayers restores layer order (earliest pending boundary first,
// deepest first at ties) and retires any layer that has nothing left to
// say, returning its cursor to the pool.
func (it *iterator) sortLayers() {
	for len(it.layers) > 0 {
		key := it.layers[0].sortKey()
		if key != nil {
			i := 0
			for i+1 < len(it.layers) {
				nextKey := it.layers[i+1].sortKey()
				if nextKey != nil && nextKey.lessThan(*key) {
					i++
					continue
				}
				break
			}
			if i > 0 {
				it.layers = append(rotateLeft(it.layers[:i+1], 1), it.layers[i+1:]...)
			}
			break
		}
		layer := it.layers[0]
		it.layers = it.layers[1:]
		it.highlighter.inner.PushCursor(layer.Cursor)
	}
}

// insertLayer inserts a newly parsed injection layer into layers, keeping
// them ordered by sortKey.
func (it *iterator) insertLayer(layer *iterLayer) {
	key := layer.sortKey()
	if key == nil {
		return
	}
	i := 1
	for i < len(it.layers) {
		keyI := it.layers[i].sortKey()
		if keyI != nil {
			if keyI.greaterThan(*key) {
				it.layers = slices.Insert(it.layers, i, layer)
				return
			}
			i++
		} else {
			it.layers = slices.Delete(it.layers, i, i+1)
		}
	}
	it.layers = append(it.layers, layer)
}

func rotateLeft[T any](s []T, i int) []T {
	return append(s[i:], s[:i]...)
}

// Highlight runs a highlight pass over source using cfg, resolving any
// language injection it encounters through injectionCallback, and returns
// the resulting stream of events in document order. The sequence stops
// early, yielding a non-nil error, if ctx is cancelled mid-pass.
func (h *Highlighter) Highlight(ctx context.Context, cfg *Configuration, source []byte, injectionCallback InjectionCallback) iter.Seq2[Event, error] {
	buf := input.NewBuffer(source)

	layers, err := newLayers(ctx, h, source, buf, "", injectionCallback, cfg, 0, []tree_sitter.Range{{
		StartByte:  0,
		EndByte:    uint(len(source)),
		StartPoint: tree_sitter.Point{Row: 0, Column: 0},
		EndPoint:   tree_sitter.Point{Row: ^uint(0), Column: ^uint(0)},
	}})
	if err != nil {
		return func(yield func(Event, error) bool) { yield(nil, err) }
	}

	it := &iterator{
		ctx:               ctx,
		source:            source,
		buf:               buf,
		languageName:      cfg.LanguageName,
		highlighter:       h,
		injectionCallback: injectionCallback,
		layers:            layers,
	}
	it.sortLayers()

	return func(yield func(Event, error) bool) {
		for {
			ev, err := it.next()
			if err != nil {
				yield(nil, err)
				return
			}
			if ev == nil {
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}
