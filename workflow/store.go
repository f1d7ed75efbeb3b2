/*
 * store.go, part of gophon.
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
	"os"
	"path/filepath"
	"strings"

	phon "github.com/rmera/gophon"
	"github.com/rmera/gophon/kpath"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//LegacyStatePath is the record written by the earlier, script-based version of the
//workflow. It is JSON, which yaml.v3 reads just fine.
const LegacyStatePath = "workflow_state.json"

//record is the persisted part of a Config. Pointers tell missing keys from zero values.
type record struct {
	Dims          []int    `yaml:"dims,flow"`
	Prefix        *string  `yaml:"prefix"`
	AtomName      *string  `yaml:"atom_name"`
	BandPoints    *int     `yaml:"band_points"`
	BandLabels    *string  `yaml:"band_labels"`
	BandSequence  []string `yaml:"band_sequence,flow"`
	POSCARPath    *string  `yaml:"poscar_path"`
	ApplySymmetry *bool    `yaml:"apply_symmetry"`
}

//Store keeps the campaign configuration between the pre- and post-processing stages.
type Store struct {
	path   string
	legacy string
	log    *zap.Logger
}

//NewStore returns a Store that keeps the record in path. If path is relative, it is
//taken relative to dir, where the legacy record is also looked for.
func NewStore(dir, path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return &Store{path: path, legacy: filepath.Join(dir, LegacyStatePath), log: log}
}

//Path returns the file where the record is kept.
func (S *Store) Path() string { return S.path }

//Save writes the persisted fields of C, replacing any previous record.
func (S *Store) Save(C *Config) error {
	dims := C.Dims[:]
	r := record{
		Dims:          append([]int(nil), dims...),
		Prefix:        &C.Prefix,
		AtomName:      &C.AtomName,
		BandPoints:    &C.BandPoints,
		BandLabels:    &C.BandLabels,
		BandSequence:  C.BandSequence,
		ApplySymmetry: &C.ApplySymmetry,
	}
	if C.POSCARPath != "" {
		r.POSCARPath = &C.POSCARPath
	}
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	tmp := S.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	if err := os.Rename(tmp, S.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	S.log.Info("pre-processing configuration recorded", zap.String("file", filepath.Base(S.path)))
	return nil
}

//Load reads the record and returns a new Config for stage with its values. Optional
//fields missing from the record take their defaults. A missing record is
//phon.ErrMissingConfiguration; a record without valid dims or prefix is
//phon.ErrCorruptConfiguration.
func (S *Store) Load(stage Stage) (*Config, error) {
	name := S.path
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		name = S.legacy
		data, err = os.ReadFile(name)
	}
	if os.IsNotExist(err) {
		S.log.Error("pre-processing configuration not found, run the pre-processing stage first", zap.String("file", S.path))
		return nil, phon.NewError(phon.ErrMissingConfiguration, S.path, "", "Store.Load")
	}
	if err != nil {
		return nil, phon.NewError(phon.ErrMissingConfiguration, name, err.Error(), "Store.Load")
	}
	C, err := decode(data, stage)
	if err != nil {
		return nil, phon.NewError(phon.ErrCorruptConfiguration, name, err.Error(), "Store.Load")
	}
	S.log.Info("pre-processing configuration loaded",
		zap.String("file", filepath.Base(name)),
		zap.Ints("dims", C.Dims[:]),
		zap.String("prefix", C.Prefix))
	return C, nil
}

func decode(data []byte, stage Stage) (*Config, error) {
	var r record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	C := NewConfig(stage)
	if len(r.Dims) != 3 {
		return nil, fmt.Errorf("dims must have 3 entries, got %d", len(r.Dims))
	}
	for i, v := range r.Dims {
		if v <= 0 {
			return nil, fmt.Errorf("dims entries must be positive, got %v", r.Dims)
		}
		C.Dims[i] = v
	}
	if r.Prefix == nil {
		return nil, fmt.Errorf("missing prefix")
	}
	if err := ValidatePrefix(*r.Prefix); err != nil {
		return nil, err
	}
	C.Prefix = *r.Prefix
	if r.AtomName != nil {
		C.AtomName = *r.AtomName
	}
	if r.BandPoints != nil {
		if *r.BandPoints <= 0 {
			return nil, fmt.Errorf("band_points must be positive, got %d", *r.BandPoints)
		}
		C.BandPoints = *r.BandPoints
	}
	if r.BandSequence != nil {
		if len(r.BandSequence) < 2 {
			return nil, fmt.Errorf("band_sequence needs at least 2 points, got %d", len(r.BandSequence))
		}
		C.BandSequence = r.BandSequence
		C.BandLabels = kpath.Labels(r.BandSequence)
	}
	if r.BandLabels != nil {
		C.BandLabels = *r.BandLabels
	}
	if r.POSCARPath != nil && strings.TrimSpace(*r.POSCARPath) != "" {
		C.POSCARPath = expandHome(*r.POSCARPath)
	}
	if r.ApplySymmetry != nil {
		C.ApplySymmetry = *r.ApplySymmetry
	}
	return C, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
