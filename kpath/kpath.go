/*
 * kpath.go, part of gophon.
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
	"fmt"
	"io"
	"sort"
	"strings"

	phon "github.com/rmera/gophon"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

//GammaLabel is how the Gamma point is written in BAND_LABELS.
const GammaLabel = `$\Gamma$`

//DefaultPath is the path used when no helper is available, and the suggested one otherwise.
var DefaultPath = []string{"G", "M", "K", "G"}

//Fallback holds the special points used when the helper is not available, or
//doesn't know a label.
var Fallback = map[string][3]float64{
	"G": {0, 0, 0},
	"M": {0.5, 0, 0},
	"K": {1.0 / 3.0, -1.0 / 3.0, 0},
}

//Path is a resolved band path: the point labels, the fractional coordinates of each
//(in the same order) and the label string for plots.
type Path struct {
	Sequence []string
	Points   [][3]float64
	Labels   string
}

//Helper computes the special points of the Brillouin zone of a cell.
type Helper interface {
	SpecialPoints(cell *phon.Cell) (map[string][3]float64, error)
	//Gamma returns the key the helper uses for the Gamma point.
	Gamma() string
}

//Prompter asks the operator a question. An empty answer means def.
type Prompter interface {
	Ask(question, def string) (string, error)
}

//Labels renders a sequence of point labels, with G as Gamma.
func Labels(sequence []string) string {
	parts := make([]string, 0, len(sequence))
	for _, v := range sequence {
		if v == "G" {
			parts = append(parts, GammaLabel)
			continue
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}

//FallbackPath returns the default path with the fallback coordinates.
func FallbackPath() Path {
	p := Path{Sequence: append([]string(nil), DefaultPath...)}
	for _, v := range p.Sequence {
		p.Points = append(p.Points, Fallback[v])
	}
	p.Labels = Labels(p.Sequence)
	return p
}

//ParsePath turns a space-separated list of labels into a Path, using points
//(as given by a helper whose Gamma symbol is gamma). Labels are upper-cased.
//G and GAMMA refer to the Gamma point. Labels not in points are looked up in
//Fallback. log can be nil.
func ParsePath(input string, points map[string][3]float64, gamma string, log *zap.Logger) (Path, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var p Path
	for _, v := range strings.Fields(input) {
		p.Sequence = append(p.Sequence, strings.ToUpper(v))
	}
	if len(p.Sequence) < 2 {
		return Path{}, phon.NewError(phon.ErrInsufficientBandPath, "", fmt.Sprintf("got %d in %q", len(p.Sequence), input), "ParsePath")
	}
	for _, sym := range p.Sequence {
		search := sym
		if sym == "G" || sym == "GAMMA" {
			search = gamma
		}
		if c, ok := points[search]; ok {
			p.Points = append(p.Points, c)
			continue
		}
		if c, ok := points[sym]; ok {
			p.Points = append(p.Points, c)
			continue
		}
		c, ok := Fallback[sym]
		if !ok {
			return Path{}, phon.NewError(phon.ErrUnknownPoint, "", sym, "ParsePath")
		}
		log.Warn("high-symmetry point not found, using the default coordinates", zap.String("point", sym))
		p.Points = append(p.Points, c)
	}
	p.Labels = Labels(p.Sequence)
	return p, nil
}

//Resolver decides the band path for a structure.
type Resolver struct {
	Helper Helper //nil means no helper is available
	Prompt Prompter
	Out    io.Writer //where the special points are shown to the operator. Can be nil.
	Log    *zap.Logger
}

//Resolve returns the band path for the structure in the POSCAR file unitcell.
//If the helper is missing or fails in any way, the fallback path is returned and the
//operator is not asked anything. Otherwise the operator chooses the path among the
//points suggested by the helper, and an invalid choice is an error.
func (R *Resolver) Resolve(unitcell string) (Path, error) {
	log := R.Log
	if log == nil {
		log = zap.NewNop()
	}
	cell, points, err := R.specialPoints(unitcell)
	if err != nil {
		log.Warn("special point helper unavailable, using the built-in default path", zap.Error(err))
		p := FallbackPath()
		log.Info("using the built-in default path", zap.String("path", strings.Join(p.Sequence, " ")))
		return p, nil
	}
	names := make([]string, 0, len(points))
	for k := range points {
		names = append(names, k)
	}
	sort.Strings(names)
	log.Info("high-symmetry points found")
	if R.Out != nil {
		fmt.Fprintln(R.Out, "\nHigh-symmetry points found:")
	}
	for _, k := range names {
		c := points[k]
		line := fmt.Sprintf("  %s: (%.6f, %.6f, %.6f)", k, c[0], c[1], c[2])
		if kv, err := cell.KVector(c); err == nil {
			line += fmt.Sprintf("  |k| = %.4f 1/Å", floats.Norm(kv, 2))
		}
		log.Info(line)
		if R.Out != nil {
			fmt.Fprintln(R.Out, line)
		}
	}
	def := strings.Join(DefaultPath, " ")
	if R.Out != nil {
		fmt.Fprintf(R.Out, "\nSuggested default path: %s\n", def)
	}
	answer, err := R.Prompt.Ask("High-symmetry path (space separated, e.g. G M K G)", def)
	if err != nil {
		return Path{}, phon.ErrDecorate(err, "Resolve")
	}
	p, err := ParsePath(answer, points, R.Helper.Gamma(), log)
	if err != nil {
		return Path{}, phon.ErrDecorate(err, "Resolve")
	}
	log.Info("band path from the special point helper", zap.String("path", strings.Join(p.Sequence, " ")))
	return p, nil
}

//specialPoints runs the helper. Every failure, panics included, means "no helper".
func (R *Resolver) specialPoints(unitcell string) (cell *phon.Cell, points map[string][3]float64, err error) {
	if R.Helper == nil {
		return nil, nil, fmt.Errorf("no helper configured")
	}
	if R.Prompt == nil {
		return nil, nil, fmt.Errorf("no way to ask for a path")
	}
	defer func() {
		if r := recover(); r != nil {
			cell, points, err = nil, nil, fmt.Errorf("helper panicked: %v", r)
		}
	}()
	cell, err = phon.POSCARRead(unitcell)
	if err != nil {
		return nil, nil, err
	}
	points, err = R.Helper.SpecialPoints(cell)
	if err == nil && len(points) == 0 {
		err = fmt.Errorf("helper returned no points")
	}
	return cell, points, err
}
