/*
 * displace.go, part of gophon.
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
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	phon "github.com/rmera/gophon"
	"github.com/rmera/gophon/phonopy"
	"go.uber.org/zap"
)

//displacedSuffix returns the numeric suffix of a phonopy displaced structure name
//(POSCAR-001 gives "001"), and false for any other name.
func displacedSuffix(name string) (string, bool) {
	parts := strings.Split(name, "-")
	if len(parts) != 2 || parts[1] == "" {
		return "", false
	}
	for _, r := range parts[1] {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return parts[1], true
}

//GenerateDisplacements runs phonopy to create the displaced supercells of unitcell
//and moves each POSCAR-N file to the work directory {prefix}-N, as its POSCAR.
//It returns the work directories, in lexicographic order.
func GenerateDisplacements(ctx context.Context, H *phonopy.Handle, C *Config, unitcell string, log *zap.Logger) ([]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := H.Displacements(ctx, C.Dims, unitcell); err != nil {
		return nil, phon.ErrDecorate(err, "GenerateDisplacements")
	}
	entries, err := os.ReadDir(H.Dir())
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasPrefix(e.Name(), phonopy.POSCAR+"-") {
			files = append(files, H.Path(e.Name()))
		}
	}
	sort.Strings(files)
	var dirs []string
	for _, src := range files {
		name := filepath.Base(src)
		suffix, ok := displacedSuffix(name)
		if !ok {
			log.Info("skipping file that is not a displaced structure", zap.String("file", name))
			continue
		}
		dir := H.Path(C.WorkDirName(suffix))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return dirs, err
		}
		dest := filepath.Join(dir, phonopy.POSCAR)
		if _, err := os.Stat(dest); err == nil {
			log.Info("overwriting existing file", zap.String("file", dest))
			if err := os.Remove(dest); err != nil {
				return dirs, err
			}
		}
		log.Info("moving displaced structure", zap.String("from", src), zap.String("to", dest))
		if err := phon.MoveFile(src, dest); err != nil {
			return dirs, err
		}
		dirs = append(dirs, dir)
	}
	if len(dirs) == 0 {
		return nil, phon.NewError(phon.ErrNoDisplacements, H.Dir(), "phonopy produced no POSCAR-N files", "GenerateDisplacements")
	}
	return dirs, nil
}

//FindWorkDirs returns the work directories of the campaign in the working directory dir,
//in lexicographic order. Only directories named exactly {prefix}-{digits} count.
func FindWorkDirs(dir string, C *Config) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	re := C.WorkDirPattern()
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && re.MatchString(e.Name()) {
			dirs = append(dirs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(dirs)
	if len(dirs) == 0 {
		return nil, phon.NewError(phon.ErrPrecondition, dir, "no phonon work directories with prefix "+C.Prefix, "FindWorkDirs")
	}
	return dirs, nil
}
