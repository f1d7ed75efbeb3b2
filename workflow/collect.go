/*
 * collect.go, part of gophon.
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

	"github.com/rmera/gophon/phonopy"
)

//ChooseStage asks the operator which stage to run.
func ChooseStage(C *Console) (Stage, error) {
	key, err := C.Choice("Stage to run (1=pre-processing only, 2=post-processing only, 3=full workflow)",
		[]string{"1", "2", "3"}, []string{"pre", "post", "full"}, "3")
	if err != nil {
		return "", err
	}
	return map[string]Stage{"1": Pre, "2": Post, "3": Full}[key], nil
}

//Collect asks the operator for the campaign parameters of a stage that includes
//pre-processing. The structure file is looked for in dir, and asked again until it exists.
func Collect(C *Console, dir string, stage Stage) (*Config, error) {
	cfg := NewConfig(stage)
	for {
		name, err := C.Ask("POSCAR file name (in the working directory)", phonopy.POSCAR)
		if err != nil {
			return nil, err
		}
		candidate := name
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(dir, name)
		}
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return nil, err
			}
			if resolved, err := filepath.EvalSymlinks(abs); err == nil {
				abs = resolved
			}
			cfg.POSCARPath = abs
			break
		}
		fmt.Fprintf(C.Out(), "File %s not found, please try again.\n", candidate)
	}
	var err error
	cfg.ApplySymmetry, err = C.YesNo("Run `phonopy --symmetry POSCAR`?", true)
	if err != nil {
		return nil, err
	}
	dims, err := C.PositiveInts("Supercell dimensions (a b c)", DefaultDims[:])
	if err != nil {
		return nil, err
	}
	copy(cfg.Dims[:], dims)
	for {
		cfg.Prefix, err = C.Ask("Prefix for the phonon work directories (e.g. 441Mono2bo3-disp)", DefaultPrefix)
		if err != nil {
			return nil, err
		}
		if perr := ValidatePrefix(cfg.Prefix); perr != nil {
			fmt.Fprintf(C.Out(), "%s, please try again.\n", perr)
			continue
		}
		break
	}
	return cfg, cfg.Validate()
}
