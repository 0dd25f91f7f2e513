package events

import "github.com/nelkk/tree-house-go/types"

// Event is an interface that represents a highlight Event.
// Possible implementations are:
// - [EventLayerStart]
// - [EventLayerEnd]
// - [EventCaptureStart]
// - [EventCaptureEnd]
// - [EventSource]
type Event interface {
	highlightEvent()
}

// EventSource carries a range of source bytes, highlighted or not; together
// the EventSource events of a pass cover the document in order.
type EventSource struct {
	StartByte uint
	EndByte   uint
}

func (EventSource) highlightEvent() {}

// EventLayerStart is emitted when a language layer starts: the top-level
// document or a language injection.
type EventLayerStart struct {
	// LanguageName is the name of the layer's language.
	LanguageName string
}

func (EventLayerStart) highlightEvent() {}

// EventLayerEnd is emitted when the most recently started language layer
// ends.
type EventLayerEnd struct{}

func (EventLayerEnd) highlightEvent() {}

// EventCaptureStart is emitted when a highlight region starts.
type EventCaptureStart struct {
	// Highlight is the index, within the names passed to Configure, of the
	// name the capture resolved to.
	Highlight types.CaptureIndex
}

func (EventCaptureStart) highlightEvent() {}

// EventCaptureEnd is emitted when a highlight region ends.
type EventCaptureEnd struct{}

func (EventCaptureEnd) highlightEvent() {}
