/*
 * bandconf.go, part of gophon.
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
	"fmt"
	"os"
	"strconv"
	"strings"
)

//BandSettings holds the contents of a phonopy band.conf file.
type BandSettings struct {
	AtomName string
	Dims     [3]int
	Points   [][3]float64 //fractional coordinates of the path, in order
	NPoints  int          //BAND_POINTS
	Labels   string
}

//Lines returns the band.conf contents, one setting per line.
func (B *BandSettings) Lines() []string {
	dims := make([]string, 0, 3)
	for _, v := range B.Dims {
		dims = append(dims, strconv.Itoa(v))
	}
	band := make([]string, 0, 3*len(B.Points))
	for _, p := range B.Points {
		for _, v := range p {
			band = append(band, fmt.Sprintf("%.6f", v))
		}
	}
	return []string{
		"ATOM_NAME = " + B.AtomName,
		"DIM = " + strings.Join(dims, " "),
		"BAND = " + strings.Join(band, " "),
		fmt.Sprintf("BAND_POINTS = %d", B.NPoints),
		"BAND_LABELS = " + B.Labels,
		"BAND_CONNECTION = .TRUE.",
		"FORCE_CONSTANTS = WRITE",
		"FC_SYMMETRY = .TRUE.",
		"FC_FORMAT = HDF5",
	}
}

//Write writes the settings to filename, replacing any previous file.
func (B *BandSettings) Write(filename string) error {
	return os.WriteFile(filename, []byte(strings.Join(B.Lines(), "\n")+"\n"), 0644)
}
