// Package input presents source text, held in one byte slice, through a
// chunked view: a cursor over fixed-size chunks, and a string comparison
// that walks those chunks instead of slicing the candidate range out.
package input

import (
	"bytes"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// chunkSize is the size of the windows the buffer hands out via Chunk.
const chunkSize = 4096

// seekThreshold caps how far a forward seek will walk chunk by chunk before
// it gives up and reseats the cursor directly. Parsing reads are almost
// always contiguous, so the common case never pays for a reseat.
const seekThreshold = 4096

// Buffer is a chunked view over a byte slice. It keeps a single cursor
// positioned for the kind of mostly-forward, mostly-contiguous access
// pattern that a query cursor produces while walking a tree.
type Buffer struct {
	source []byte
	cursor Cursor
}

// NewBuffer wraps source for chunked access. source is not copied.
func NewBuffer(source []byte) *Buffer {
	return &Buffer{source: source}
}

// Source returns the full backing slice.
func (b *Buffer) Source() []byte {
	return b.source
}

// Cursor tracks a chunk-aligned offset into a Buffer's source.
type Cursor struct {
	source []byte
	offset uint32
}

// Offset returns the start of the cursor's current chunk.
func (c *Cursor) Offset() uint32 {
	return c.offset
}

// Chunk returns the bytes of the cursor's current chunk. It is empty once
// the cursor has reached the end of the source.
func (c *Cursor) Chunk() []byte {
	end := c.offset + chunkSize
	if end > uint32(len(c.source)) {
		end = uint32(len(c.source))
	}
	if c.offset >= end {
		return nil
	}
	return c.source[c.offset:end]
}

// Advance moves the cursor to the next chunk, returning false once there is
// no more source left.
func (c *Cursor) Advance() bool {
	next := c.offset + uint32(len(c.Chunk()))
	if next >= uint32(len(c.source)) {
		return false
	}
	c.offset = next
	return true
}

// CursorAt seeks the buffer's cursor so that its chunk covers offset,
// reusing the existing cursor for small forward moves and reseating it
// for backward jumps or jumps past seekThreshold. This mirrors how an
// injection re-entering a distant part of the document behaves: most
// seeks are short and contiguous, but combined injections can jump the
// cursor anywhere in the document.
func (b *Buffer) CursorAt(offset uint32) *Cursor {
	c := &b.cursor
	if c.source == nil {
		c.source = b.source
	}

	if offset < c.offset || offset-c.offset > seekThreshold {
		c.offset = (offset / chunkSize) * chunkSize
	} else {
		for c.offset+uint32(len(c.Chunk())) <= offset {
			if !c.Advance() {
				break
			}
		}
	}
	return c
}

// Eq reports whether the two byte ranges hold identical content. Ranges of
// differing length are never equal.
func (b *Buffer) Eq(r1, r2 tree_sitter.Range) bool {
	if r1.EndByte-r1.StartByte != r2.EndByte-r2.StartByte {
		return false
	}
	return bytes.Equal(b.source[r1.StartByte:r1.EndByte], b.source[r2.StartByte:r2.EndByte])
}

// MatchesString reports whether s equals the bytes in r, streaming the
// comparison across chunk boundaries instead of materializing r as a
// single slice. Used to satisfy #eq?/#any-of? predicates against string
// literals without ever copying the candidate range out of source.
func (b *Buffer) MatchesString(s string, r tree_sitter.Range) bool {
	start, end := uint32(r.StartByte), uint32(r.EndByte)
	if uint32(len(s)) != end-start {
		return false
	}

	remaining := []byte(s)
	cursor := b.CursorAt(start)
	startInChunk := start - cursor.Offset()
	chunk := cursor.Chunk()

	if end-cursor.Offset() <= uint32(len(chunk)) {
		return bytes.Equal(chunk[startInChunk:end-cursor.Offset()], remaining)
	}

	head := chunk[startInChunk:]
	if !bytes.Equal(head, remaining[:len(head)]) {
		return false
	}
	remaining = remaining[len(head):]

	for cursor.Advance() {
		chunk = cursor.Chunk()
		if len(remaining) <= len(chunk) {
			return bytes.Equal(chunk[:len(remaining)], remaining)
		}
		if !bytes.Equal(chunk, remaining[:len(chunk)]) {
			return false
		}
		remaining = remaining[len(chunk):]
	}

	return false
}
