/*
 * config.go, part of gophon.
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

package workflow

import (
	"fmt"
	"regexp"
	"strings"

	phon "github.com/rmera/gophon"
	"github.com/rmera/gophon/kpath"
)

//Stage selects what part of the workflow runs.
type Stage string

const (
	Pre  Stage = "pre"
	Post Stage = "post"
	Full Stage = "full"
)

//RunsPre returns true if the stage includes pre-processing.
func (s Stage) RunsPre() bool { return s == Pre || s == Full }

//RunsPost returns true if the stage includes post-processing.
func (s Stage) RunsPost() bool { return s == Post || s == Full }

//Defaults for a new campaign.
const (
	DefaultBandPoints = 51
	DefaultPrefix     = "441Mono2bo3-disp"
)

//DefaultDims is the supercell offered to the operator.
var DefaultDims = [3]int{2, 2, 2}

//Config describes a campaign. Everything but Stage is persisted between the
//pre-processing and the post-processing stages.
type Config struct {
	Stage         Stage
	Dims          [3]int
	Prefix        string
	POSCARPath    string //absolute, empty if unknown
	ApplySymmetry bool
	AtomName      string
	BandPoints    int
	BandLabels    string
	BandSequence  []string
}

//NewConfig returns a Config for stage with the default values for everything
//the operator is not asked about.
func NewConfig(stage Stage) *Config {
	return &Config{
		Stage:         stage,
		Dims:          DefaultDims,
		Prefix:        DefaultPrefix,
		ApplySymmetry: true,
		AtomName:      phon.DefaultAtomName,
		BandPoints:    DefaultBandPoints,
		BandLabels:    kpath.Labels(kpath.DefaultPath),
		BandSequence:  append([]string(nil), kpath.DefaultPath...),
	}
}

//Copy returns a deep copy of C.
func (C *Config) Copy() *Config {
	c := *C
	c.BandSequence = append([]string(nil), C.BandSequence...)
	return &c
}

//Validate checks the invariants of a campaign configuration.
func (C *Config) Validate() error {
	var problems []string
	switch C.Stage {
	case Pre, Post, Full:
	default:
		problems = append(problems, fmt.Sprintf("unknown stage %q", C.Stage))
	}
	for i, v := range C.Dims {
		if v <= 0 {
			problems = append(problems, fmt.Sprintf("supercell dimension %d is %d, must be positive", i+1, v))
		}
	}
	if err := ValidatePrefix(C.Prefix); err != nil {
		problems = append(problems, err.Error())
	}
	if C.BandPoints <= 0 {
		problems = append(problems, fmt.Sprintf("band points must be positive, got %d", C.BandPoints))
	}
	if len(C.BandSequence) < 2 {
		problems = append(problems, fmt.Sprintf("band path has %d points, needs at least 2", len(C.BandSequence)))
	}
	if len(problems) > 0 {
		return phon.NewError(phon.ErrInvalidConfiguration, "", strings.Join(problems, "; "), "Config.Validate")
	}
	return nil
}

//ValidatePrefix checks that prefix can be used to name work directories.
func ValidatePrefix(prefix string) error {
	switch {
	case strings.TrimSpace(prefix) == "":
		return fmt.Errorf("empty folder prefix")
	case strings.ContainsAny(prefix, `/\`):
		return fmt.Errorf("folder prefix %q contains a path separator", prefix)
	}
	return nil
}

//WorkDirName returns the name of the work directory for the displacement with the given suffix.
func (C *Config) WorkDirName(suffix string) string {
	return C.Prefix + "-" + suffix
}

//WorkDirPattern matches the names of the work directories of the campaign.
func (C *Config) WorkDirPattern() *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(C.Prefix) + `-(\d+)$`)
}
