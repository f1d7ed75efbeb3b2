/*
 * prepare.go, part of gophon.
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

	phon "github.com/rmera/gophon"
	"github.com/rmera/gophon/phonopy"
	"go.uber.org/zap"
)

//PrepareUnitCell copies source to POSCAR in the working directory of H (unless it
//is already that file) and produces POSCAR-unitcell from it. With applySymmetry,
//POSCAR-unitcell is the PPOSCAR written by phonopy's symmetry analysis; otherwise it
//is a copy of POSCAR. Returns the path to POSCAR-unitcell.
func PrepareUnitCell(ctx context.Context, H *phonopy.Handle, source string, applySymmetry bool, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if source == "" {
		return "", phon.NewError(phon.ErrPrecondition, "", "the pre-processing stage needs a POSCAR file", "PrepareUnitCell")
	}
	poscar := H.Path(phonopy.POSCAR)
	unitcell := H.Path(phonopy.UnitCell)
	log.Info("copying POSCAR", zap.String("from", source), zap.String("to", poscar))
	if phon.SameFile(source, poscar) {
		log.Info("source POSCAR already in the working directory, not copied")
	} else if err := phon.CopyFile(source, poscar); err != nil {
		return "", phon.NewError(phon.ErrPrecondition, source, err.Error(), "PrepareUnitCell")
	}
	if !applySymmetry {
		if err := phon.CopyFile(poscar, unitcell); err != nil {
			return "", err
		}
		return unitcell, nil
	}
	if err := H.Symmetry(ctx, phonopy.POSCAR); err != nil {
		return "", phon.ErrDecorate(err, "PrepareUnitCell")
	}
	generated := H.Path(phonopy.PPOSCAR)
	if _, err := os.Stat(generated); err != nil {
		return "", phon.NewError(phon.ErrToolOutputMissing, generated, "PPOSCAR not found, `phonopy --symmetry` probably failed", "PrepareUnitCell")
	}
	if _, err := os.Stat(unitcell); err == nil {
		log.Info("removing the existing POSCAR-unitcell before replacing it")
		if err := os.Remove(unitcell); err != nil {
			return "", err
		}
	}
	if err := phon.MoveFile(generated, unitcell); err != nil {
		return "", err
	}
	return unitcell, nil
}
