package kpath

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	phon "github.com/rmera/gophon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hexPOSCAR = `BO3 monolayer
1.0
   2.5000000000   0.0000000000   0.0000000000
  -1.2500000000   2.1650635095   0.0000000000
   0.0000000000   0.0000000000  20.0000000000
B O
1 3
Direct
  0.0 0.0 0.5
  0.5 0.0 0.5
  0.0 0.5 0.5
  0.5 0.5 0.5
`

const fccPOSCAR = `Si
5.43
0.0 0.5 0.5
0.5 0.0 0.5
0.5 0.5 0.0
Si
2
Direct
0.00 0.00 0.00
0.25 0.25 0.25
`

const triclinicPOSCAR = `odd
1.0
4.0 0.0 0.0
1.0 5.0 0.0
0.5 0.7 6.0
C
1
Direct
0 0 0
`

type fakePrompt struct {
	answer string
	asked  int
}

func (f *fakePrompt) Ask(question, def string) (string, error) {
	f.asked++
	if f.answer == "" {
		return def, nil
	}
	return f.answer, nil
}

type brokenHelper struct{ panics bool }

func (b brokenHelper) Gamma() string { return Gamma }

func (b brokenHelper) SpecialPoints(cell *phon.Cell) (map[string][3]float64, error) {
	if b.panics {
		panic("boom")
	}
	return nil, errors.New("helper not installed")
}

func writeCell(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "POSCAR-unitcell")
	require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	return name
}

func TestFallbackPath(t *testing.T) {
	p := FallbackPath()
	assert.Equal(t, []string{"G", "M", "K", "G"}, p.Sequence)
	assert.Equal(t, [][3]float64{{0, 0, 0}, {0.5, 0, 0}, {1.0 / 3.0, -1.0 / 3.0, 0}, {0, 0, 0}}, p.Points)
	assert.Equal(t, `$\Gamma$ M K $\Gamma$`, p.Labels)
	//the default must not be shared
	p.Sequence[1] = "X"
	assert.Equal(t, "M", DefaultPath[1])
}

func TestParsePath(t *testing.T) {
	points := map[string][3]float64{Gamma: {0, 0, 0}, "M": {0.5, 0, 0}, "K": {1.0 / 3.0, 1.0 / 3.0, 0}, "A": {0, 0, 0.5}}

	p, err := ParsePath("g m  k gamma a", points, Gamma, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"G", "M", "K", "GAMMA", "A"}, p.Sequence)
	assert.Equal(t, [][3]float64{{0, 0, 0}, {0.5, 0, 0}, {1.0 / 3.0, 1.0 / 3.0, 0}, {0, 0, 0}, {0, 0, 0.5}}, p.Points)
	assert.Equal(t, `$\Gamma$ M K GAMMA A`, p.Labels)

	t.Run("per-label fallback", func(t *testing.T) {
		p, err := ParsePath("G K", map[string][3]float64{Gamma: {0, 0, 0}}, Gamma, nil)
		require.NoError(t, err)
		assert.Equal(t, [3]float64{1.0 / 3.0, -1.0 / 3.0, 0}, p.Points[1])
	})
	t.Run("unknown", func(t *testing.T) {
		_, err := ParsePath("G Q", points, Gamma, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, phon.ErrUnknownPoint))
		assert.Contains(t, err.Error(), "Q")
	})
	t.Run("too short", func(t *testing.T) {
		for _, in := range []string{"", "  ", "G"} {
			_, err := ParsePath(in, points, Gamma, nil)
			assert.True(t, errors.Is(err, phon.ErrInsufficientBandPath), in)
		}
	})
}

func TestLatticeKind(t *testing.T) {
	for content, kind := range map[string]string{hexPOSCAR: "hexagonal", fccPOSCAR: "fcc"} {
		cell, err := phon.POSCARRead(writeCell(t, content))
		require.NoError(t, err)
		k, err := LatticeKind(cell)
		require.NoError(t, err)
		assert.Equal(t, kind, k)
	}
	cell, err := phon.POSCARRead(writeCell(t, triclinicPOSCAR))
	require.NoError(t, err)
	_, err = LatticeKind(cell)
	assert.True(t, errors.Is(err, ErrUnsupportedLattice))
}

func TestResolveWithoutHelper(t *testing.T) {
	prompt := &fakePrompt{answer: "G X"}
	R := &Resolver{Prompt: prompt}
	p, err := R.Resolve(writeCell(t, hexPOSCAR))
	require.NoError(t, err)
	assert.Equal(t, FallbackPath(), p)
	assert.Equal(t, 0, prompt.asked)
}

func TestResolveHelperFailures(t *testing.T) {
	for _, h := range []Helper{brokenHelper{}, brokenHelper{panics: true}, LatticeHelper{}} {
		prompt := &fakePrompt{}
		R := &Resolver{Helper: h, Prompt: prompt}
		//the triclinic cell is not supported by LatticeHelper
		p, err := R.Resolve(writeCell(t, triclinicPOSCAR))
		require.NoError(t, err)
		assert.Equal(t, FallbackPath(), p)
		assert.Equal(t, 0, prompt.asked)
	}
	//an unreadable structure also means "no helper"
	R := &Resolver{Helper: LatticeHelper{}, Prompt: &fakePrompt{}}
	p, err := R.Resolve(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, FallbackPath(), p)
}

func TestResolveWithHelper(t *testing.T) {
	var out bytes.Buffer
	prompt := &fakePrompt{}
	R := &Resolver{Helper: LatticeHelper{}, Prompt: prompt, Out: &out}
	p, err := R.Resolve(writeCell(t, hexPOSCAR))
	require.NoError(t, err)
	assert.Equal(t, 1, prompt.asked)
	assert.Equal(t, DefaultPath, p.Sequence)
	assert.Equal(t, [3]float64{1.0 / 3.0, 1.0 / 3.0, 0}, p.Points[2])
	assert.Equal(t, `$\Gamma$ M K $\Gamma$`, p.Labels)
	assert.Contains(t, out.String(), "  H: (0.333333, 0.333333, 0.500000)")
	assert.Contains(t, out.String(), "  M: (0.500000, 0.000000, 0.000000)  |k| = 1.4510 1/Å")

	prompt.answer = "G"
	_, err = R.Resolve(writeCell(t, hexPOSCAR))
	assert.True(t, errors.Is(err, phon.ErrInsufficientBandPath))

	prompt.answer = "G X"
	_, err = R.Resolve(writeCell(t, hexPOSCAR))
	assert.True(t, errors.Is(err, phon.ErrUnknownPoint))
}
