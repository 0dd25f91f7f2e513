package highlight

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/nelkk/tree-house-go/language"
)

var theme = map[string]int{
	"variable":          15,
	"function":          14,
	"function.call":     14,
	"function.method":   14,
	"type":               4,
	"property":          12,
	"keyword":            5,
	"operator":          11,
	"string":            10,
	"number":              3,
	"constant.builtin":    3,
	"comment":           245,
}

func captureNames() []string {
	names := make([]string, 0, len(theme))
	for name := range theme {
		names = append(names, name)
	}
	return names
}

func goConfiguration(t *testing.T, highlightsPath, localsPath string) *Configuration {
	t.Helper()

	highlightsQuery, err := os.ReadFile(highlightsPath)
	require.NoError(t, err)

	var localsQuery []byte
	if localsPath != "" {
		localsQuery, err = os.ReadFile(localsPath)
		require.NoError(t, err)
	}

	lang := language.NewLanguage("go", tree_sitter_go.Language(), highlightsQuery, nil, localsQuery)

	cfg, err := NewConfiguration(lang)
	require.NoError(t, err)

	cfg.Configure(captureNames())
	return cfg
}

func TestHighlighter_Highlight(t *testing.T) {
	source, err := os.ReadFile("testdata/test.go")
	require.NoError(t, err)

	cfg := goConfiguration(t, "testdata/highlights.scm", "testdata/locals.scm")

	highlighter := New()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var (
		sawLayerStart  bool
		sawCaptureKind bool
		rendered       string
	)
	for event, err := range highlighter.Highlight(ctx, cfg, source, func(string) *Configuration { return nil }) {
		require.NoError(t, err)

		switch e := event.(type) {
		case EventLayerStart:
			require.Equal(t, "go", e.LanguageName)
			sawLayerStart = true
		case EventCaptureStart:
			require.Less(t, uint(e.Highlight), uint(len(theme)))
			sawCaptureKind = true
		case EventSource:
			rendered += string(source[e.StartByte:e.EndByte])
		}
	}

	require.True(t, sawLayerStart)
	require.True(t, sawCaptureKind)
	require.Equal(t, string(source), rendered)
}

func TestHighlighter_Highlight_ResolvesLocalDefinitions(t *testing.T) {
	source := []byte("package main\n\nfunc main() {\n\tmessage := \"hi\"\n\t_ = message\n}\n")

	cfg := goConfiguration(t, "testdata/highlights.scm", "testdata/locals.scm")

	highlighter := New()
	ctx := context.Background()

	var highlightsSeen int
	for event, err := range highlighter.Highlight(ctx, cfg, source, func(string) *Configuration { return nil }) {
		require.NoError(t, err)
		if _, ok := event.(EventCaptureStart); ok {
			highlightsSeen++
		}
	}

	require.Positive(t, highlightsSeen)
}

func TestHighlighter_Highlight_CancelledContext(t *testing.T) {
	source, err := os.ReadFile("testdata/test.go")
	require.NoError(t, err)

	cfg := goConfiguration(t, "testdata/highlights.scm", "")

	highlighter := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawErr bool
	for _, err := range highlighter.Highlight(ctx, cfg, source, func(string) *Configuration { return nil }) {
		if err != nil {
			sawErr = true
			break
		}
	}
	require.True(t, sawErr)
}

func TestHighlighter_Highlight_Injection(t *testing.T) {
	source := []byte("package main\n\n// a doc comment\nfunc main() {}\n")

	injectionsQuery := []byte(`
((comment) @injection.content
 (#set! injection.language "comment"))
`)

	lang := language.NewLanguage("go", tree_sitter_go.Language(), mustRead(t, "testdata/highlights.scm"), injectionsQuery, nil)
	cfg, err := NewConfiguration(lang)
	require.NoError(t, err)
	cfg.Configure(captureNames())

	commentHighlights := []byte(`"//" @comment
(comment) @comment`)
	commentLang := language.NewLanguage("comment", tree_sitter_go.Language(), commentHighlights, nil, nil)
	commentCfg, err := NewConfiguration(commentLang)
	require.NoError(t, err)
	commentCfg.Configure(captureNames())

	highlighter := New()
	ctx := context.Background()

	var layers []string
	for event, err := range highlighter.Highlight(ctx, cfg, source, func(name string) *Configuration {
		if name == "comment" {
			return commentCfg
		}
		return nil
	}) {
		require.NoError(t, err)
		if e, ok := event.(EventLayerStart); ok {
			layers = append(layers, e.LanguageName)
		}
	}

	require.Contains(t, layers, "go")
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
