package highlight

import (
	"iter"

	"github.com/nelkk/tree-house-go/internal/events"
	"github.com/nelkk/tree-house-go/internal/html"
	"github.com/nelkk/tree-house-go/types"
)

// Configuration bundles a compiled highlights/injections/locals query with
// the capture-index bookkeeping the highlighter needs to interpret it. See
// [NewConfiguration] and [Configuration.Configure].
type Configuration = types.Configuration

// CaptureIndex identifies a highlight, resolved against an embedder's
// recognised highlight names by [Configuration.Configure].
type CaptureIndex = types.CaptureIndex

// NoHighlight is the sentinel CaptureIndex meaning "no highlight". A captured
// node whose name never resolved against the configured theme produces no
// [EventCaptureStart] at all, so this value never appears in one.
const NoHighlight = types.NoHighlight

// InjectionCallback resolves the name carried by an `injection.language`
// capture (or an `#set! injection.language` property) to the
// [Configuration] of the language it names. Returning nil skips the
// injection: its content is left unhighlighted and is not parsed.
type InjectionCallback = types.InjectionCallback

// AttributeCallback renders the HTML attributes for the <span> wrapping one
// highlight region, given its CaptureIndex and the name of the language the
// span's content belongs to.
type AttributeCallback = types.AttributeCallback

// StandardCaptureNames is the conventional vocabulary of highlight capture
// names shared across tree-sitter highlight queries. It exists purely as a
// reference default for [Configuration.NonconformantCaptureNames].
var StandardCaptureNames = types.StandardCaptureNames

// Event is one step of a highlight pass's output stream. Implementations
// are [EventLayerStart], [EventLayerEnd], [EventCaptureStart],
// [EventCaptureEnd], and [EventSource].
type Event = events.Event

// EventLayerStart marks the start of a language layer: either the
// top-level document or a language injection.
type EventLayerStart = events.EventLayerStart

// EventLayerEnd marks the end of the most recently started language layer.
type EventLayerEnd = events.EventLayerEnd

// EventCaptureStart marks the start of a highlighted region.
type EventCaptureStart = events.EventCaptureStart

// EventCaptureEnd marks the end of the most recently started highlighted
// region.
type EventCaptureEnd = events.EventCaptureEnd

// EventSource carries a run of source bytes that should be rendered using
// whichever capture/layer is innermost at the time it is emitted.
type EventSource = events.EventSource

// Render renders source as HTML, wrapping each highlighted region in a
// <span> whose attributes come from callback.
func Render(highlightEvents iter.Seq2[Event, error], source string, callback AttributeCallback) (string, error) {
	return html.Render(highlightEvents, source, callback)
}

// RenderCSS renders a CSS stylesheet from a map of highlight capture name to
// declaration body (the part between `{` and `}`), emitting one
// `.hl-<name> { <body> }` rule per entry, sorted by name so the output is
// deterministic across runs.
func RenderCSS(rules map[string]string) string {
	return html.RenderCSS(rules)
}
