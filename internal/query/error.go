package query

import (
	"fmt"
	"strings"
)

// ParserErrorLocation pinpoints a byte offset inside a query's source with
// enough surrounding context (the offending line plus one line on either
// side) to render a caret diagnostic. Line is 1-based; Column is the number
// of codepoints between the start of that line and the offset.
type ParserErrorLocation struct {
	Line        uint32
	Column      uint32
	Len         uint32
	lineContent string
	lineBefore  string
	lineAfter   string
}

// NewParserErrorLocation locates the line/column containing the byte offset
// start within source, and captures len codepoints worth of underline plus
// the lines immediately before and after for context.
func NewParserErrorLocation(source string, start, length int) ParserErrorLocation {
	var loc ParserErrorLocation

	byteOffset := 0
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lineStart := byteOffset
		lineEnd := lineStart + len(line)
		if lineStart <= start && start <= lineEnd {
			loc.Line = uint32(i) + 1
			loc.lineContent = strings.TrimSuffix(line, "\r")
			loc.Column = uint32(len([]rune(source[lineStart:start])))
			if i > 0 {
				before := strings.TrimSuffix(lines[i-1], "\r")
				if before != "" {
					loc.lineBefore = before
				}
			}
			if i+1 < len(lines) {
				after := strings.TrimSuffix(lines[i+1], "\r")
				if after != "" {
					loc.lineAfter = after
				}
			}
			break
		}
		byteOffset += len(line) + 1
	}

	loc.Len = uint32(length)
	return loc
}

func (l ParserErrorLocation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", l.Line, l.Column+1)

	maxLineNumber := l.Line
	if l.lineAfter != "" {
		maxLineNumber = l.Line + 1
	}
	width := len(fmt.Sprintf("%d", maxLineNumber))
	prefix := fmt.Sprintf(" %*s |", width, "")

	fmt.Fprintf(&b, "%s\n", prefix)
	if l.lineBefore != "" {
		fmt.Fprintf(&b, " %d | %s\n", l.Line-1, l.lineBefore)
	}
	fmt.Fprintf(&b, " %d | %s\n", l.Line, l.lineContent)
	fmt.Fprintf(&b, "%s%*s %s\n", prefix, l.Column, "", strings.Repeat("^", max(int(l.Len), 1)))
	if l.lineAfter != "" {
		fmt.Fprintf(&b, " %d | %s\n", l.Line+1, l.lineAfter)
	}
	fmt.Fprintf(&b, "%s\n", prefix)
	return b.String()
}

// ParseErrorKind classifies why a query failed to compile.
type ParseErrorKind int

const (
	_ ParseErrorKind = iota
	UnexpectedEof
	SyntaxError
	InvalidNodeType
	InvalidFieldName
	InvalidCaptureName
	InvalidPredicate
	ImpossiblePattern
)

// ParseError reports a query compilation failure, carrying enough location
// information to render a source-level diagnostic.
type ParseError struct {
	Kind     ParseErrorKind
	Message  string
	Name     string
	Location ParserErrorLocation
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnexpectedEof:
		return fmt.Sprintf("unexpected EOF\n%s", e.Location)
	case SyntaxError:
		return fmt.Sprintf("invalid query syntax\n%s", e.Location)
	case InvalidNodeType:
		return fmt.Sprintf("invalid node type %q\n%s", e.Name, e.Location)
	case InvalidFieldName:
		return fmt.Sprintf("invalid field name %q\n%s", e.Name, e.Location)
	case InvalidCaptureName:
		return fmt.Sprintf("invalid capture name %q\n%s", e.Name, e.Location)
	case InvalidPredicate:
		return fmt.Sprintf("%s\n%s", e.Message, e.Location)
	case ImpossiblePattern:
		return fmt.Sprintf("impossible pattern\n%s", e.Location)
	default:
		return e.Message
	}
}
