package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "loom/internal/core/errors"
)

func TestTemplate_Variables(t *testing.T) {
	tpl := ParseTemplate("hello {{name}}, {{missing}}!")
	out := tpl.Render(Context{"name": "world"})
	assert.Equal(t, "hello world, !", out)
}

func TestTemplate_Each(t *testing.T) {
	tpl := ParseTemplate("{{#each items}}- {{name}}\n{{/each}}")
	out := tpl.Render(Context{"items": []Context{
		{"name": "first"},
		{"name": "second"},
	}})
	assert.Equal(t, "- first\n- second\n", out)
}

func TestTemplate_NestedEachSeesOuterScope(t *testing.T) {
	tpl := ParseTemplate("{{#each outer}}{{prefix}}{{label}}:{{#each inner}}{{label}}.{{item}} {{/each}}{{/each}}")
	out := tpl.Render(Context{
		"prefix": ">",
		"outer": []Context{{
			"label": "a",
			"inner": []Context{{"item": "1"}, {"item": "2"}},
		}},
	})
	assert.Equal(t, ">a:a.1 a.2 ", out)
}

func TestTemplate_Deterministic(t *testing.T) {
	tpl := ParseTemplate("{{#each xs}}{{v}}|{{/each}}")
	ctx := Context{"xs": []Context{{"v": "x"}, {"v": "y"}, {"v": "z"}}}
	first := tpl.Render(ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, tpl.Render(ctx))
	}
}

func TestLoadBundle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.tmpl"), []byte("{{x}}"), 0o644))

	bundle, err := LoadBundle(dir)
	require.NoError(t, err)

	tpl, err := bundle.Template("file")
	require.NoError(t, err)
	assert.Equal(t, "ok", tpl.Render(Context{"x": "ok"}))

	_, err = bundle.Template("missing")
	assert.Equal(t, error(lerrors.InvalidTemplatePath{Path: "missing.tmpl"}), err)
}

func TestLoadBundle_BadPath(t *testing.T) {
	_, err := LoadBundle(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, lerrors.IsKind(err, lerrors.KindGenerator))
}
