package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/rime/pkg/errors"
	"github.com/ajitpratap0/rime/pkg/scene"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "Templates/TypeWell/Enemy", TypePath("Enemy"))
	assert.Equal(t, "Templates/NameWell/Coin", NamePath("Coin"))
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry(zaptest.NewLogger(t))
	enemy := &scene.Template{Name: "Enemy"}
	coin := &scene.Template{Name: "Coin"}

	r.RegisterType("Enemy", enemy)
	r.RegisterNamed("Coin", coin)

	got, ok := r.ResolveTemplate("Templates/TypeWell/Enemy")
	require.True(t, ok)
	assert.Same(t, enemy, got)

	got, ok = r.ResolveTemplate(NamePath("Coin"))
	require.True(t, ok)
	assert.Same(t, coin, got)

	_, ok = r.ResolveTemplate(NamePath("Enemy"))
	assert.False(t, ok, "families never share paths")

	assert.Equal(t, []string{NamePath("Coin"), TypePath("Enemy")}, r.Paths())

	r.Unregister(NamePath("Coin"))
	_, ok = r.ResolveTemplate(NamePath("Coin"))
	assert.False(t, ok)
}

func TestRegistryNilTemplateIsUnresolved(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(NamePath("Ghost"), nil)
	_, ok := r.ResolveTemplate(NamePath("Ghost"))
	assert.False(t, ok)
}

const yamlManifest = `
type_well:
  - name: Enemy
    behaviors: [Enemy]
    children:
      - name: HealthBar
        disabled: true
name_well:
  - name: Coin
  - name: Gem
`

func TestParseManifestYAML(t *testing.T) {
	m, err := ParseManifest([]byte(yamlManifest), "yaml")
	require.NoError(t, err)
	require.Len(t, m.TypeWell, 1)
	require.Len(t, m.NameWell, 2)
	assert.Equal(t, []string{"Enemy"}, m.TypeWell[0].Behaviors)
	assert.True(t, m.TypeWell[0].Children[0].Disabled)

	r := NewRegistry(nil)
	m.Apply(r)
	assert.Equal(t, []string{NamePath("Coin"), NamePath("Gem"), TypePath("Enemy")}, r.Paths())
}

func TestLoadManifestJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	content := `{"type_well":[{"name":"Turret","behaviors":["Turret"]}],"name_well":[{"name":"Coin"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "Turret", m.TypeWell[0].Name)
	assert.Equal(t, "Coin", m.NameWell[0].Name)
}

func TestManifestValidation(t *testing.T) {
	bad := `
type_well:
  - name: ""
name_well:
  - name: Coin
  - name: Coin
`
	_, err := ParseManifest([]byte(bad), "yaml")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "template name is required")
	assert.Contains(t, err.Error(), `duplicate template "Coin"`)
}

func TestLoadManifestErrors(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	_, err = ParseManifest([]byte("type_well: [unterminated"), "yaml")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
