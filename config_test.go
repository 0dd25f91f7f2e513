package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/nelkk/tree-house-go/language"
)

func TestNewConfiguration(t *testing.T) {
	highlightsQuery := mustRead(t, "testdata/highlights.scm")
	localsQuery := mustRead(t, "testdata/locals.scm")

	lang := language.NewLanguage("go", tree_sitter_go.Language(), highlightsQuery, nil, localsQuery)
	cfg, err := NewConfiguration(lang)
	require.NoError(t, err)

	require.NotNil(t, cfg.LocalScopeCaptureIndex)
	require.NotNil(t, cfg.LocalDefCaptureIndex)
	require.NotNil(t, cfg.LocalRefCaptureIndex)
	require.Nil(t, cfg.InjectionContentCaptureIndex)

	cfg.Configure(StandardCaptureNames)
	require.Equal(t, []string{"local.scope", "local.definition", "local.reference"}, cfg.NonconformantCaptureNames(StandardCaptureNames))
}

func TestConfiguration_NonconformantCaptureNames(t *testing.T) {
	highlightsQuery := []byte(`(identifier) @totally.unknown.capture`)

	lang := language.NewLanguage("go", tree_sitter_go.Language(), highlightsQuery, nil, nil)
	cfg, err := NewConfiguration(lang)
	require.NoError(t, err)

	nonconformant := cfg.NonconformantCaptureNames(StandardCaptureNames)
	require.Equal(t, []string{"totally.unknown.capture"}, nonconformant)
}
