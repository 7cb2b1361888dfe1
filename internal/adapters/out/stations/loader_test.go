package stations_test

import (
	"os"
	"path/filepath"
	"testing"

	"optiroute/internal/adapters/out/stations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeRegistry(t, `[
		{"id": "S1", "lat": 48.8566, "lon": 2.3522, "name": "Châtelet", "power_kw": 50, "operator": "Izivia"},
		{"id": "S2", "lat": 48.8738, "lon": 2.295, "name": "Étoile", "type": "fast"}
	]`)

	result, err := stations.Load(path)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "S1", result[0].ID())
	assert.Equal(t, "Châtelet", result[0].Name())
	assert.InDelta(t, 48.8566, result[0].Location().Lat(), 1e-9)
	assert.Equal(t, "S2", result[1].ID())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := stations.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeRegistry(t, `{"not": "an array"}`)
	_, err := stations.Load(path)
	require.Error(t, err)
}

func TestLoad_InvalidStationFailsWholeLoad(t *testing.T) {
	path := writeRegistry(t, `[
		{"id": "S1", "lat": 48.85, "lon": 2.35, "name": "Ok"},
		{"id": "S2", "lat": 123.0, "lon": 2.35, "name": "Bad latitude"}
	]`)

	_, err := stations.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S2")
}
