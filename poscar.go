/*
 * poscar.go, part of gophon.
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
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//DefaultAtomName is the composition used when the structure file does not
//carry element symbols.
const DefaultAtomName = "BO3"

//Cell is the header of a VASP POSCAR file, i.e. everything but the atomic positions.
type Cell struct {
	Comment string
	Scale   float64
	Lattice *mat.Dense //rows are the lattice vectors, in Angstrom, with Scale already applied.
	Species []string   //empty for VASP4 files
	Counts  []int
}

//POSCARRead reads the header of the POSCAR file filename.
func POSCARRead(filename string) (*Cell, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, NewError(ErrPrecondition, filename, err.Error(), "POSCARRead")
	}
	defer f.Close()
	c, err := readPOSCAR(bufio.NewScanner(f))
	if err != nil {
		return nil, NewError(ErrStructureFormat, filename, err.Error(), "POSCARRead")
	}
	return c, nil
}

func readPOSCAR(s *bufio.Scanner) (*Cell, error) {
	lines := make([]string, 0, 7)
	for len(lines) < 7 && s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(lines) < 6 {
		return nil, fmt.Errorf("only %d lines, a POSCAR header needs at least 6", len(lines))
	}
	c := new(Cell)
	c.Comment = strings.TrimSpace(lines[0])
	var err error
	c.Scale, err = strconv.ParseFloat(strings.TrimSpace(lines[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("scale factor: %w", err)
	}
	data := make([]float64, 0, 9)
	for i := 2; i < 5; i++ {
		fields := strings.Fields(lines[i])
		if len(fields) < 3 {
			return nil, fmt.Errorf("lattice vector in line %d has %d components", i+1, len(fields))
		}
		for _, v := range fields[:3] {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("lattice vector in line %d: %w", i+1, err)
			}
			data = append(data, f)
		}
	}
	c.Lattice = mat.NewDense(3, 3, data)
	//A negative scale is the volume of the cell.
	scale := c.Scale
	if scale < 0 {
		vol := math.Abs(mat.Det(c.Lattice))
		if vol == 0 {
			return nil, fmt.Errorf("degenerate lattice")
		}
		scale = math.Cbrt(-scale / vol)
	}
	c.Lattice.Scale(scale, c.Lattice)

	countline := lines[5]
	if !allNumeric(strings.Fields(lines[5])) {
		c.Species = strings.Fields(lines[5])
		if len(lines) < 7 {
			return nil, fmt.Errorf("missing atom counts after the species line")
		}
		countline = lines[6]
	}
	for _, v := range strings.Fields(countline) {
		n, err := strconv.Atoi(v)
		if err != nil {
			break //a VASP4 file can have the comment right after the counts
		}
		c.Counts = append(c.Counts, n)
	}
	if len(c.Counts) == 0 {
		return nil, fmt.Errorf("no atom counts")
	}
	if c.Species != nil && len(c.Species) != len(c.Counts) {
		return nil, fmt.Errorf("%d species but %d atom counts", len(c.Species), len(c.Counts))
	}
	return c, nil
}

func allNumeric(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	for _, v := range fields {
		if _, err := strconv.Atoi(v); err != nil {
			return false
		}
	}
	return true
}

//Composition returns the element symbols of the cell concatenated in file order,
//so a species line "B O" gives "BO".
func (c *Cell) Composition() (string, error) {
	if len(c.Species) == 0 {
		return "", NewError(ErrStructureFormat, "", "no element symbols in structure (VASP4 format?)", "Composition")
	}
	return strings.Join(c.Species, ""), nil
}

//Len returns the number of atoms in the cell.
func (c *Cell) Len() int {
	n := 0
	for _, v := range c.Counts {
		n += v
	}
	return n
}

//Vec returns a copy of the ith lattice vector.
func (c *Cell) Vec(i int) []float64 {
	return mat.Row(nil, i, c.Lattice)
}

//Lengths returns the lengths of the three lattice vectors.
func (c *Cell) Lengths() [3]float64 {
	var l [3]float64
	for i := range l {
		l[i] = floats.Norm(c.Vec(i), 2)
	}
	return l
}

//Angles returns alpha (b,c), beta (a,c) and gamma (a,b), in degrees.
func (c *Cell) Angles() [3]float64 {
	a, b, cc := c.Vec(0), c.Vec(1), c.Vec(2)
	return [3]float64{angle(b, cc), angle(a, cc), angle(a, b)}
}

//Volume returns the volume of the cell.
func (c *Cell) Volume() float64 {
	return math.Abs(mat.Det(c.Lattice))
}

//Reciprocal returns the reciprocal lattice (rows are the reciprocal vectors), without the 2*pi factor.
func (c *Cell) Reciprocal() (*mat.Dense, error) {
	inv := mat.NewDense(3, 3, nil)
	if err := inv.Inverse(c.Lattice); err != nil {
		return nil, NewError(ErrStructureFormat, "", err.Error(), "Reciprocal")
	}
	rec := mat.NewDense(3, 3, nil)
	rec.CloneFrom(inv.T())
	return rec, nil
}

//KVector returns the Cartesian wave vector, in 1/Angstrom and with the 2*pi factor,
//of the point with fractional coordinates frac in the reciprocal lattice of c.
func (c *Cell) KVector(frac [3]float64) ([]float64, error) {
	rec, err := c.Reciprocal()
	if err != nil {
		return nil, ErrDecorate(err, "KVector")
	}
	k := mat.NewVecDense(3, nil)
	k.MulVec(rec.T(), mat.NewVecDense(3, frac[:]))
	k.ScaleVec(2*math.Pi, k)
	return k.RawVector().Data, nil
}

func angle(a, b []float64) float64 {
	cos := floats.Dot(a, b) / (floats.Norm(a, 2) * floats.Norm(b, 2))
	//rounding can take us slightly outside [-1,1]
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

//AtomName reads the POSCAR file filename and returns its composition.
func AtomName(filename string) (string, error) {
	c, err := POSCARRead(filename)
	if err != nil {
		return "", ErrDecorate(err, "AtomName")
	}
	name, err := c.Composition()
	if err != nil {
		return "", ErrDecorate(err, "AtomName")
	}
	return name, nil
}
