/*
 * forces.go, part of gophon.
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

	phon "github.com/rmera/gophon"
	"github.com/rmera/gophon/phonopy"
	"github.com/rmera/gophon/vasp"
	"go.uber.org/zap"
)

//AggregateForces removes the empty files in each work directory, then has phonopy
//collect the forces of every vasprun.xml into FORCE_SETS. phonopy's exit status is
//not trusted alone: FORCE_SETS must exist and be non-empty afterwards.
func AggregateForces(ctx context.Context, H *phonopy.Handle, dirs []string, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	for _, dir := range dirs {
		n, err := phon.RemoveEmptyFiles(dir)
		if err != nil {
			return "", err
		}
		if n > 0 {
			log.Info("removed empty files", zap.String("dir", dir), zap.Int("count", n))
		}
	}
	paths, err := vasp.VasprunPaths(dirs)
	if err != nil {
		return "", phon.ErrDecorate(err, "AggregateForces")
	}
	for i, p := range paths {
		if rel, err := filepath.Rel(H.Dir(), p); err == nil {
			paths[i] = rel
		}
	}
	if err := H.ForceSets(ctx, paths); err != nil {
		return "", phon.ErrDecorate(err, "AggregateForces")
	}
	forcesets := H.Path(phonopy.ForceSets)
	info, err := os.Stat(forcesets)
	if err != nil || info.Size() == 0 {
		return "", phon.NewError(phon.ErrEmptyAggregate, forcesets, "`phonopy -f` finished without a valid FORCE_SETS, check the vasprun.xml files and the log", "AggregateForces")
	}
	log.Info("FORCE_SETS written", zap.String("size", formatKB(info.Size())))
	return forcesets, nil
}
