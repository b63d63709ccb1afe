package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sylvanmoss/manifold/internal/logging"
	"github.com/sylvanmoss/manifold/pkg/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "dimension: 8\ndecay: 0.25\ntransform: linear-mix\nconvergence_window: 4\nglyph_components: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Dimension)
	assert.Equal(t, 0.25, cfg.Decay)
	assert.Equal(t, domain.TransformLinearMix, cfg.Transform)
	// untouched fields keep defaults
	assert.Equal(t, domain.DefaultConfig().HistorySize, cfg.HistorySize)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dimension: [nope"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestCreateEngine_Defaults(t *testing.T) {
	engine, err := createEngine(context.Background(), RunOptions{}, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)

	snap := engine.Snapshot()
	require.Len(t, snap.Nodes, 3)
	assert.Equal(t, "alpha", snap.Nodes[0].ID)
	assert.NotNil(t, engine.Store())
}

func TestCreateEngine_UnknownStore(t *testing.T) {
	_, err := createEngine(context.Background(), RunOptions{StoreKind: "cassandra"}, logging.NewNop(), domain.LifecycleHooks{})
	assert.Error(t, err)
}

func TestCreateEngine_TopologyFile(t *testing.T) {
	dir := t.TempDir()
	topoPath := filepath.Join(dir, "topology.yaml")
	topoDoc := `
nodes:
  - id: solo
    gain: 1
`
	require.NoError(t, os.WriteFile(topoPath, []byte(topoDoc), 0o644))

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dimension: 4\n"), 0o644))

	engine, err := createEngine(context.Background(), RunOptions{
		ConfigPath:   cfgPath,
		TopologyPath: topoPath,
	}, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)
	require.Len(t, engine.Snapshot().Nodes, 1)
	assert.Equal(t, "solo", engine.Snapshot().Nodes[0].ID)
}

func TestStimulusSource_Kinds(t *testing.T) {
	src, err := stimulusSource(RunOptions{Stimulus: "none"}, 8)
	require.NoError(t, err)
	assert.Nil(t, src)

	src, err = stimulusSource(RunOptions{Stimulus: "steady input"}, 8)
	require.NoError(t, err)
	require.NotNil(t, src)
	v, err := src.Sample(context.Background())
	require.NoError(t, err)
	assert.Len(t, v, 8)
}
