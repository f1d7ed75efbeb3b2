/*
 * batch.go, part of gophon.
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

package vasp

import (
	"fmt"
	"path/filepath"
	"strings"

	phon "github.com/rmera/gophon"
	"go.uber.org/zap"
)

//DirFailure is a directory that failed the convergence check, and why.
type DirFailure struct {
	Dir string
	Err error
}

//UnconvergedBatchError lists every directory of a batch that failed the convergence check.
type UnconvergedBatchError struct {
	Failures []DirFailure
}

//Dirs returns the failed directories, in the order they were checked.
func (err *UnconvergedBatchError) Dirs() []string {
	d := make([]string, 0, len(err.Failures))
	for _, v := range err.Failures {
		d = append(d, v.Dir)
	}
	return d
}

func (err *UnconvergedBatchError) Error() string {
	names := make([]string, 0, len(err.Failures))
	for _, v := range err.Failures {
		names = append(names, filepath.Base(v.Dir))
	}
	return fmt.Sprintf("%d unconverged work directories, post-processing stopped: %s", len(err.Failures), strings.Join(names, ", "))
}

func (err *UnconvergedBatchError) Unwrap() error { return phon.ErrUnconvergedBatch }

//ValidateAll runs CheckConvergence on every directory in dirs. It doesn't stop at
//the first failure: all the directories are checked, and if any failed, an
//*UnconvergedBatchError with all of them is returned.
func ValidateAll(dirs []string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	var failures []DirFailure
	for _, dir := range dirs {
		if err := CheckConvergence(dir); err != nil {
			log.Error("convergence check failed", zap.String("dir", dir), zap.Error(err))
			failures = append(failures, DirFailure{Dir: dir, Err: err})
			continue
		}
		log.Info("convergence check passed", zap.String("dir", dir))
	}
	if len(failures) == 0 {
		log.Info("all work directories converged", zap.Int("count", len(dirs)))
		return nil
	}
	log.Error("unconverged work directories found, post-processing stopped", zap.Int("count", len(failures)))
	for _, f := range failures {
		log.Error("unconverged", zap.String("dir", filepath.Base(f.Dir)))
	}
	return &UnconvergedBatchError{Failures: failures}
}

//VasprunPaths returns the vasprun.xml file of each directory, in order. Every
//file must exist and be non-empty.
func VasprunPaths(dirs []string) ([]string, error) {
	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		name := filepath.Join(dir, Vasprun)
		if !phon.NonEmpty(name) {
			return nil, phon.NewError(phon.ErrMissingSimulationOutput, name, "check that the VASP calculation in "+dir+" finished", "VasprunPaths")
		}
		paths = append(paths, name)
	}
	return paths, nil
}
