package language

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadQuery_NoInherits(t *testing.T) {
	files := map[string]string{
		"go/highlights.scm": "(comment) @comment\n",
	}
	read := func(name, filename string) string { return files[name+"/"+filename] }

	require.Equal(t, "(comment) @comment\n", ReadQuery("go", "highlights.scm", read))
}

func TestReadQuery_ExpandsSingleInherit(t *testing.T) {
	files := map[string]string{
		"cpp/highlights.scm": "; inherits: c\n(class_specifier) @type",
		"c/highlights.scm":   "(comment) @comment",
	}
	read := func(name, filename string) string { return files[name+"/"+filename] }

	got := ReadQuery("cpp", "highlights.scm", read)
	require.Contains(t, got, "(comment) @comment")
	require.Contains(t, got, "(class_specifier) @type")
}

func TestReadQuery_ExpandsMultipleInherits(t *testing.T) {
	files := map[string]string{
		"tsx/highlights.scm":        ";; inherits: typescript,jsx\n(jsx_attribute) @attribute",
		"typescript/highlights.scm": "(type_identifier) @type",
		"jsx/highlights.scm":        "(jsx_text) @none",
	}
	read := func(name, filename string) string { return files[name+"/"+filename] }

	got := ReadQuery("tsx", "highlights.scm", read)
	require.Contains(t, got, "(type_identifier) @type")
	require.Contains(t, got, "(jsx_text) @none")
	require.Contains(t, got, "(jsx_attribute) @attribute")
}

func TestReadQuery_RecursiveInherits(t *testing.T) {
	files := map[string]string{
		"cpp/highlights.scm": "; inherits: c\ncpp-only",
		"c/highlights.scm":   "; inherits: c-base\nc-only",
		"c-base/highlights.scm": "base-only",
	}
	read := func(name, filename string) string { return files[name+"/"+filename] }

	got := ReadQuery("cpp", "highlights.scm", read)
	require.Contains(t, got, "cpp-only")
	require.Contains(t, got, "c-only")
	require.Contains(t, got, "base-only")
}
