/*
 * bandyaml.go, part of gophon.
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

package phonopy

import (
	"os"

	phon "github.com/rmera/gophon"
	"gopkg.in/yaml.v3"
)

//BandStructure is the part of phonopy's band.yaml needed to plot a phonon dispersion.
type BandStructure struct {
	NQPoint        int        `yaml:"nqpoint"`
	NPath          int        `yaml:"npath"`
	SegmentNQPoint []int      `yaml:"segment_nqpoint"`
	Labels         [][]string `yaml:"labels"`
	Phonon         []QPoint   `yaml:"phonon"`
}

//QPoint is one point along the band path.
type QPoint struct {
	Position [3]float64 `yaml:"q-position"`
	Distance float64    `yaml:"distance"`
	Band     []Mode     `yaml:"band"`
}

//Mode is one phonon branch at a q-point.
type Mode struct {
	Frequency float64 `yaml:"frequency"` //THz
}

//NBands returns the number of phonon branches.
func (B *BandStructure) NBands() int {
	if len(B.Phonon) == 0 {
		return 0
	}
	return len(B.Phonon[0].Band)
}

//Branch returns the distances along the path and the frequencies (THz) of the ith branch.
func (B *BandStructure) Branch(i int) (x, freq []float64) {
	x = make([]float64, 0, len(B.Phonon))
	freq = make([]float64, 0, len(B.Phonon))
	for _, q := range B.Phonon {
		if i >= len(q.Band) {
			continue
		}
		x = append(x, q.Distance)
		freq = append(freq, q.Band[i].Frequency)
	}
	return x, freq
}

//SegmentEnds returns the path distance where each segment starts, plus the end of the last one.
func (B *BandStructure) SegmentEnds() []float64 {
	if len(B.Phonon) == 0 {
		return nil
	}
	ends := []float64{B.Phonon[0].Distance}
	i := 0
	for _, n := range B.SegmentNQPoint {
		i += n
		if i > len(B.Phonon) || n == 0 {
			break
		}
		ends = append(ends, B.Phonon[i-1].Distance)
	}
	return ends
}

//ReadBandYAML reads a phonopy band.yaml file.
func ReadBandYAML(filename string) (*BandStructure, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, phon.NewError(phon.ErrToolOutputMissing, filename, err.Error(), "ReadBandYAML")
	}
	B := new(BandStructure)
	if err := yaml.Unmarshal(data, B); err != nil {
		return nil, phon.NewError(phon.ErrStructureFormat, filename, err.Error(), "ReadBandYAML")
	}
	if len(B.Phonon) == 0 {
		return nil, phon.NewError(phon.ErrToolOutputMissing, filename, "no phonon data", "ReadBandYAML")
	}
	return B, nil
}
