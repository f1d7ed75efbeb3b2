package workflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	phon "github.com/rmera/gophon"
	"github.com/rmera/gophon/kpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	S := NewStore(dir, "state.yaml", nil)
	assert.Equal(t, filepath.Join(dir, "state.yaml"), S.Path())
	C := NewConfig(Full)
	C.Dims = [3]int{4, 4, 1}
	C.Prefix = "mono-disp"
	C.POSCARPath = "/data/BO3/POSCAR"
	C.ApplySymmetry = false
	C.AtomName = "BO"
	C.BandPoints = 101
	C.BandSequence = []string{"G", "K", "M"}
	C.BandLabels = kpath.Labels(C.BandSequence)
	require.NoError(t, S.Save(C))

	L, err := S.Load(Post)
	require.NoError(t, err)
	assert.Equal(t, Post, L.Stage)
	L.Stage = Full
	assert.Equal(t, C, L)

	//overwrites
	C.Prefix = "other"
	C.POSCARPath = ""
	require.NoError(t, S.Save(C))
	L, err = S.Load(Post)
	require.NoError(t, err)
	assert.Equal(t, "other", L.Prefix)
	assert.Empty(t, L.POSCARPath)
	data, err := os.ReadFile(S.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "poscar_path: null")
}

func TestStoreDefaults(t *testing.T) {
	dir := t.TempDir()
	S := NewStore(dir, "workflow_state.yaml", nil)
	require.NoError(t, os.WriteFile(S.Path(), []byte("dims: [3, 3, 1]\nprefix: disp\n"), 0644))
	C, err := S.Load(Post)
	require.NoError(t, err)
	assert.Equal(t, [3]int{3, 3, 1}, C.Dims)
	assert.Equal(t, DefaultBandPoints, C.BandPoints)
	assert.Equal(t, phon.DefaultAtomName, C.AtomName)
	assert.Equal(t, kpath.DefaultPath, C.BandSequence)
	assert.Equal(t, `$\Gamma$ M K $\Gamma$`, C.BandLabels)
	assert.True(t, C.ApplySymmetry)
	assert.Empty(t, C.POSCARPath)
}

func TestStoreLegacy(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"dims": [2, 2, 2], "prefix": "441Mono2bo3-disp", "atom_name": "BO3", "band_points": 51,
"band_labels": "$\\Gamma$ M K $\\Gamma$", "band_sequence": ["G", "M", "K", "G"], "poscar_path": null}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, LegacyStatePath), []byte(legacy), 0644))
	C, err := NewStore(dir, "workflow_state.yaml", nil).Load(Post)
	require.NoError(t, err)
	assert.Equal(t, DefaultDims, C.Dims)
	assert.Equal(t, DefaultPrefix, C.Prefix)
	assert.Equal(t, `$\Gamma$ M K $\Gamma$`, C.BandLabels)
	assert.Empty(t, C.POSCARPath)
}

func TestStoreFailures(t *testing.T) {
	dir := t.TempDir()
	S := NewStore(dir, "workflow_state.yaml", nil)
	_, err := S.Load(Post)
	assert.ErrorIs(t, err, phon.ErrMissingConfiguration)

	for _, bad := range []string{
		"prefix: disp\n",
		"dims: [2, 2]\nprefix: disp\n",
		"dims: [2, 0, 2]\nprefix: disp\n",
		"dims: [2, 2, 2]\n",
		"dims: [2, 2, 2]\nprefix: a/b\n",
		"dims: [2, 2, 2]\nprefix: disp\nband_sequence: [G]\n",
		"dims: [2, 2, 2\n",
	} {
		require.NoError(t, os.WriteFile(S.Path(), []byte(bad), 0644))
		_, err := S.Load(Post)
		assert.ErrorIs(t, err, phon.ErrCorruptConfiguration, bad)
	}
}

func TestConfigValidate(t *testing.T) {
	C := NewConfig(Pre)
	require.NoError(t, C.Validate())
	C.Dims[1] = -1
	C.Prefix = ""
	err := C.Validate()
	assert.ErrorIs(t, err, phon.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "dimension 2")
	assert.Contains(t, err.Error(), "empty folder prefix")

	C = NewConfig(Full)
	D := C.Copy()
	D.BandSequence[0] = "X"
	assert.Equal(t, "G", C.BandSequence[0])
	assert.True(t, Full.RunsPre() && Full.RunsPost())
	assert.False(t, Pre.RunsPost() || Post.RunsPre())
	assert.Equal(t, "disp-001", (&Config{Prefix: "disp"}).WorkDirName("001"))
}

func TestParseSettings(t *testing.T) {
	t.Setenv("GOPHON_PHONOPY", "/opt/phonopy/bin/phonopy")
	t.Setenv("GOPHON_PLOT_TIMEOUT", "45s")
	t.Setenv("GOPHON_PNG", "false")
	S, err := ParseSettings()
	require.NoError(t, err)
	assert.Equal(t, "/opt/phonopy/bin/phonopy", S.Phonopy)
	assert.Equal(t, "phonopy-bandplot", S.BandPlot)
	assert.Equal(t, 45*time.Second, S.PlotTimeout)
	assert.Equal(t, "workflow_state.yaml", S.StatePath)
	assert.True(t, S.KPathHelper)
	assert.False(t, S.PNG)

	t.Setenv("GOPHON_PLOT_TIMEOUT", "0s")
	_, err = ParseSettings()
	assert.Error(t, err)
}
