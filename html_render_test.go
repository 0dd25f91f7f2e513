package highlight

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/nelkk/tree-house-go/language"
)

var cssTheme = map[string]string{
	"variable": "color: #FEFEF8;",
	"function": "color: #73FBF1;",
	"string":   "color: #B8E466;",
	"keyword":  "color: #A578EA;",
	"comment":  "color: #8A8A8A;",
}

func attributeCallback(names []string) AttributeCallback {
	return func(h CaptureIndex, languageName string) string {
		if h == NoHighlight {
			return ""
		}
		return `class="hl-` + names[h] + `"`
	}
}

func TestRender(t *testing.T) {
	names := captureNames()

	source, err := os.ReadFile("testdata/test.go")
	require.NoError(t, err)

	highlightsQuery, err := os.ReadFile("testdata/highlights.scm")
	require.NoError(t, err)

	lang := language.NewLanguage("go", tree_sitter_go.Language(), highlightsQuery, nil, nil)
	cfg, err := NewConfiguration(lang)
	require.NoError(t, err)
	cfg.Configure(names)

	highlighter := New()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	events := highlighter.Highlight(ctx, cfg, source, func(string) *Configuration { return nil })

	out, err := Render(events, string(source), attributeCallback(names))
	require.NoError(t, err)
	require.Contains(t, out, "<span")
	require.Contains(t, out, `<span class="hl-keyword">package</span> testdata`)
}

func TestRenderCSS(t *testing.T) {
	css := RenderCSS(cssTheme)

	require.Contains(t, css, ".hl-comment { color: #8A8A8A; }\n")
	require.Contains(t, css, ".hl-keyword { color: #A578EA; }\n")

	// Rule order follows sorted capture names, not map iteration order.
	commentIdx := strings.Index(css, ".hl-comment")
	keywordIdx := strings.Index(css, ".hl-keyword")
	require.Less(t, commentIdx, keywordIdx)
}
