/*
 * poscar_test.go, part of gophon.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package phon

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

const boPOSCAR = `B2O3 layer
1.0
   4.4000000000   0.0000000000   0.0000000000
  -2.2000000000   3.8105117766   0.0000000000
   0.0000000000   0.0000000000  18.0000000000
   B    O
   2    3
Direct
  0.333 0.667 0.5
  0.667 0.333 0.5
  0.5 0.0 0.5
  0.0 0.5 0.5
  0.5 0.5 0.5
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "POSCAR")
	require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	return name
}

//TestPOSCARRead reads a VASP5 file and checks the lattice, species and derived quantities.
func TestPOSCARRead(t *testing.T) {
	c, err := POSCARRead(writeTemp(t, boPOSCAR))
	require.NoError(t, err)
	assert.Equal(t, "B2O3 layer", c.Comment)
	name, err := c.Composition()
	require.NoError(t, err)
	assert.Equal(t, "BO", name)
	assert.Equal(t, 5, c.Len())
	l := c.Lengths()
	assert.InDelta(t, 4.4, l[0], 1e-6)
	assert.InDelta(t, 4.4, l[1], 1e-6)
	assert.InDelta(t, 18, l[2], 1e-6)
	a := c.Angles()
	assert.InDelta(t, 90, a[0], 1e-6)
	assert.InDelta(t, 90, a[1], 1e-6)
	assert.InDelta(t, 120, a[2], 1e-6)
	rec, err := c.Reciprocal()
	require.NoError(t, err)
	//a_i . b_j = delta_ij
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dot := 0.0
			for k := 0; k < 3; k++ {
				dot += c.Lattice.At(i, k) * rec.At(j, k)
			}
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, dot, 1e-9, "a%d.b%d", i, j)
		}
	}
	//b1 of a hexagonal cell is 2/(a*sqrt(3)) long, M is half of it.
	k, err := c.KVector([3]float64{0.5, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Pi*0.5*2/(4.4*math.Sqrt(3)), floats.Norm(k, 2), 1e-6)
}

//TestPOSCARScale checks that both scale factors and volumes are applied.
func TestPOSCARScale(t *testing.T) {
	c, err := POSCARRead(writeTemp(t, "cubic\n2.0\n1 0 0\n0 1 0\n0 0 1\nNa Cl\n1 1\nDirect\n0 0 0\n.5 .5 .5\n"))
	require.NoError(t, err)
	assert.InDelta(t, 8, c.Volume(), 1e-9)
	c, err = POSCARRead(writeTemp(t, "cubic\n-27.0\n1 0 0\n0 1 0\n0 0 1\nNa Cl\n1 1\nDirect\n0 0 0\n.5 .5 .5\n"))
	require.NoError(t, err)
	assert.InDelta(t, 3, c.Lengths()[0], 1e-9)
}

func TestPOSCARVASP4(t *testing.T) {
	name := writeTemp(t, "old file\n1.0\n3 0 0\n0 3 0\n0 0 3\n1 1\nDirect\n0 0 0\n.5 .5 .5\n")
	c, err := POSCARRead(name)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, c.Counts)
	assert.Nil(t, c.Species)
	_, err = AtomName(name)
	assert.ErrorIs(t, err, ErrStructureFormat)
}

func TestPOSCARBroken(t *testing.T) {
	for _, content := range []string{
		"short\n1.0\n",
		"bad scale\nx\n1 0 0\n0 1 0\n0 0 1\nC\n1\n",
		"bad vector\n1.0\n1 0\n0 1 0\n0 0 1\nC\n1\n",
		"mismatch\n1.0\n1 0 0\n0 1 0\n0 0 1\nC H\n1\n",
	} {
		_, err := POSCARRead(writeTemp(t, content))
		assert.ErrorIs(t, err, ErrStructureFormat, content)
	}
	_, err := POSCARRead(filepath.Join(t.TempDir(), "nothere"))
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestErrorDecorate(t *testing.T) {
	err := NewError(ErrEmptyAggregate, "FORCE_SETS", "zero bytes", "AggregateForces")
	wrapped := ErrDecorate(err, "Driver.Post")
	assert.ErrorIs(t, wrapped, ErrEmptyAggregate)
	assert.Equal(t, []string{"AggregateForces", "Driver.Post"}, err.Decorate(""))
	assert.Equal(t, "aggregate force set missing or empty (FORCE_SETS): zero bytes", err.Error())
	assert.Equal(t, "FORCE_SETS", err.FileName())
	plain := errors.New("plain")
	assert.Equal(t, plain, ErrDecorate(plain, "x"))

	trail, file := Trail(wrapped)
	assert.Equal(t, []string{"AggregateForces", "Driver.Post"}, trail)
	assert.Equal(t, "FORCE_SETS", file)
	trail, file = Trail(plain)
	assert.Nil(t, trail)
	assert.Empty(t, file)
}
