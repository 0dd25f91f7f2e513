package language

import (
	"fmt"
	"regexp"
	"strings"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

type Language struct {
	Name            string
	HighlightsQuery []byte
	InjectionQuery  []byte
	LocalsQuery     []byte
	Lang            *tree_sitter.Language
}

func NewLanguage(name string, ptr unsafe.Pointer, highlightsQuery, injectionQuery, localsQuery []byte) Language {
	return Language{
		Name:            name,
		HighlightsQuery: highlightsQuery,
		InjectionQuery:  injectionQuery,
		LocalsQuery:     localsQuery,
		Lang:            tree_sitter.NewLanguage(ptr),
	}
}

// inheritsPattern matches a `;+ inherits: lang1,lang2` comment line in a
// query file, the convention grammars use to splice another language's
// query into their own instead of repeating it.
var inheritsPattern = regexp.MustCompile(`;+\s*inherits\s*:?\s*([a-z_,()-]+)\s*`)

// ReadQuery reads the named query file for name via read, then expands every
// `inherits` directive in it, wherever in the file it appears, by
// recursively reading and splicing in the named languages' own copy of the
// same file. A query with
// no inherits directive is returned unchanged.
//
// read is the embedder's own query-file loader (typically backed by an
// embedded filesystem or a languages directory on disk); this function
// only implements the recursive-expansion semantics on top of it. Loop
// detection across mutually inheriting languages is left to read, exactly
// as the directive's own contract assumes.
func ReadQuery(name, filename string, read func(name, filename string) string) string {
	query := read(name, filename)

	return inheritsPattern.ReplaceAllStringFunc(query, func(match string) string {
		groups := inheritsPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}

		var b strings.Builder
		for _, inherited := range strings.Split(groups[1], ",") {
			fmt.Fprintf(&b, "\n%s\n", ReadQuery(inherited, filename, read))
		}
		return b.String()
	})
}
