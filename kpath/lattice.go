/*
 * lattice.go, part of gophon.
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

package kpath

import (
	"errors"
	"fmt"
	"math"

	phon "github.com/rmera/gophon"
	"gonum.org/v1/gonum/floats/scalar"
)

//ErrUnsupportedLattice is returned by LatticeHelper for cells it can't classify.
var ErrUnsupportedLattice = errors.New("lattice not supported by the special point helper")

//Tolerances for the lattice classification.
const (
	lengthTol = 1e-3 //relative
	angleTol  = 0.1  //degrees
)

//Gamma is the symbol LatticeHelper uses for the Brillouin zone center.
const Gamma = "Γ"

//bcc primitive cells have all angles equal to arccos(-1/3)
var bccAngle = math.Acos(-1.0/3.0) * 180 / math.Pi

//Special points in fractional coordinates of the reciprocal lattice, following
//Setyawan and Curtarolo, Comp. Mat. Sci. 49, 299 (2010).
var specialPoints = map[string]map[string][3]float64{
	"cubic": {
		Gamma: {0, 0, 0},
		"X":   {0, 0.5, 0},
		"M":   {0.5, 0.5, 0},
		"R":   {0.5, 0.5, 0.5},
	},
	"fcc": {
		Gamma: {0, 0, 0},
		"K":   {3.0 / 8.0, 3.0 / 8.0, 3.0 / 4.0},
		"L":   {0.5, 0.5, 0.5},
		"U":   {5.0 / 8.0, 1.0 / 4.0, 5.0 / 8.0},
		"W":   {0.5, 0.25, 0.75},
		"X":   {0.5, 0, 0.5},
	},
	"bcc": {
		Gamma: {0, 0, 0},
		"H":   {0.5, -0.5, 0.5},
		"P":   {0.25, 0.25, 0.25},
		"N":   {0, 0, 0.5},
	},
	"tetragonal": {
		Gamma: {0, 0, 0},
		"A":   {0.5, 0.5, 0.5},
		"M":   {0.5, 0.5, 0},
		"R":   {0, 0.5, 0.5},
		"X":   {0, 0.5, 0},
		"Z":   {0, 0, 0.5},
	},
	"orthorhombic": {
		Gamma: {0, 0, 0},
		"R":   {0.5, 0.5, 0.5},
		"S":   {0.5, 0.5, 0},
		"T":   {0, 0.5, 0.5},
		"U":   {0.5, 0, 0.5},
		"X":   {0.5, 0, 0},
		"Y":   {0, 0.5, 0},
		"Z":   {0, 0, 0.5},
	},
	"hexagonal": {
		Gamma: {0, 0, 0},
		"A":   {0, 0, 0.5},
		"H":   {1.0 / 3.0, 1.0 / 3.0, 0.5},
		"K":   {1.0 / 3.0, 1.0 / 3.0, 0},
		"L":   {0.5, 0, 0.5},
		"M":   {0.5, 0, 0},
	},
}

//LatticeHelper suggests special points from the shape of the cell alone. It knows
//cubic (simple, and fcc and bcc primitive cells), tetragonal, orthorhombic and
//hexagonal lattices, in their standard orientations.
type LatticeHelper struct{}

func (LatticeHelper) Gamma() string { return Gamma }

//SpecialPoints returns the special points for the lattice of cell.
func (LatticeHelper) SpecialPoints(cell *phon.Cell) (map[string][3]float64, error) {
	kind, err := LatticeKind(cell)
	if err != nil {
		return nil, err
	}
	ret := make(map[string][3]float64, len(specialPoints[kind]))
	for k, v := range specialPoints[kind] {
		ret[k] = v
	}
	return ret, nil
}

//LatticeKind classifies the lattice of cell from its lengths and angles.
func LatticeKind(cell *phon.Cell) (string, error) {
	if cell == nil || cell.Lattice == nil {
		return "", fmt.Errorf("%w: no lattice", ErrUnsupportedLattice)
	}
	if cell.Volume() < 1e-8 {
		return "", fmt.Errorf("%w: degenerate lattice", ErrUnsupportedLattice)
	}
	l := cell.Lengths()
	ang := cell.Angles()
	eq := func(x, y float64) bool { return scalar.EqualWithinRel(x, y, lengthTol) }
	all := func(v float64) bool {
		return scalar.EqualWithinAbs(ang[0], v, angleTol) && scalar.EqualWithinAbs(ang[1], v, angleTol) && scalar.EqualWithinAbs(ang[2], v, angleTol)
	}
	abEq, bcEq, acEq := eq(l[0], l[1]), eq(l[1], l[2]), eq(l[0], l[2])
	switch {
	case abEq && bcEq && all(90):
		return "cubic", nil
	case abEq && bcEq && all(60):
		return "fcc", nil
	case abEq && bcEq && all(bccAngle):
		return "bcc", nil
	case abEq && scalar.EqualWithinAbs(ang[0], 90, angleTol) && scalar.EqualWithinAbs(ang[1], 90, angleTol) && scalar.EqualWithinAbs(ang[2], 120, angleTol):
		return "hexagonal", nil
	case all(90) && (abEq || bcEq || acEq):
		//the unique axis must be c for the standard special points
		if !abEq {
			return "", fmt.Errorf("%w: tetragonal cell with unique axis other than c", ErrUnsupportedLattice)
		}
		return "tetragonal", nil
	case all(90):
		return "orthorhombic", nil
	}
	return "", fmt.Errorf("%w: a=%.4f b=%.4f c=%.4f alpha=%.2f beta=%.2f gamma=%.2f", ErrUnsupportedLattice, l[0], l[1], l[2], ang[0], ang[1], ang[2])
}
