/*
 * phonopy.go, part of gophon.
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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	phon "github.com/rmera/gophon"
	"go.uber.org/zap"
)

//File names phonopy reads and writes in the working directory.
const (
	POSCAR      = "POSCAR"
	PPOSCAR     = "PPOSCAR"
	UnitCell    = "POSCAR-unitcell"
	ForceSets   = "FORCE_SETS"
	BandConf    = "band.conf"
	BandYAML    = "band.yaml"
	BandPlotOut = "phononband.out"
)

//ErrTimeout is returned by BandPlot when the command does not finish in time.
var ErrTimeout = errors.New("command timed out")

//Handle runs phonopy in a working directory. Every method blocks until
//phonopy finishes. A non-zero exit status is returned as phon.ErrCommandFailed.
type Handle struct {
	command  string
	bandplot string
	dir      string
	runner   Runner
	log      *zap.Logger
}

//NewHandle returns a Handle with default settings that runs phonopy in dir.
func NewHandle(dir string, log *zap.Logger) *Handle {
	H := new(Handle)
	H.SetDefaults()
	H.dir = dir
	if log != nil {
		H.log = log
	}
	return H
}

//SetDefaults sets the commands to "phonopy" and "phonopy-bandplot", to be found in the PATH,
//the working directory to the current one, and a logger that discards everything.
func (H *Handle) SetDefaults() {
	H.command = "phonopy"
	H.bandplot = "phonopy-bandplot"
	H.dir = "."
	H.runner = ExecRunner{}
	H.log = zap.NewNop()
}

func (H *Handle) SetCommand(name string) {
	H.command = name
}

func (H *Handle) SetBandPlotCommand(name string) {
	H.bandplot = name
}

//SetRunner replaces the object that actually executes the commands.
func (H *Handle) SetRunner(r Runner) {
	H.runner = r
}

func (H *Handle) Dir() string {
	return H.dir
}

//Path returns name, relative to the working directory of the handle.
func (H *Handle) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(H.dir, name)
}

//Symmetry runs phonopy's symmetry analysis on poscar. phonopy writes the
//standardized primitive cell to PPOSCAR.
func (H *Handle) Symmetry(ctx context.Context, poscar string) error {
	_, err := H.run(ctx, "Symmetry", "--symmetry", poscar)
	return err
}

//Displacements asks phonopy for the displaced supercells of unitcell, expanded by dims.
//phonopy writes them as POSCAR-001, POSCAR-002 ... and also writes phonopy_disp.yaml.
func (H *Handle) Displacements(ctx context.Context, dims [3]int, unitcell string) error {
	args := []string{"-d", "--dim"}
	for _, v := range dims {
		args = append(args, strconv.Itoa(v))
	}
	args = append(args, "--pa", "auto", "-c", unitcell)
	_, err := H.run(ctx, "Displacements", args...)
	return err
}

//ForceSets folds the forces in the given vasprun.xml files, in that order, into FORCE_SETS.
func (H *Handle) ForceSets(ctx context.Context, vaspruns []string) error {
	if len(vaspruns) == 0 {
		return phon.NewError(phon.ErrPrecondition, "", "no vasprun.xml files given", "ForceSets")
	}
	args := append([]string{"-f"}, vaspruns...)
	_, err := H.run(ctx, "ForceSets", args...)
	return err
}

//Band runs the band structure calculation described by conf for unitcell. Results go to band.yaml.
func (H *Handle) Band(ctx context.Context, unitcell, conf string) error {
	_, err := H.run(ctx, "Band", "-c", unitcell, conf, "-p", "-s")
	return err
}

//BandPlot runs phonopy-bandplot --gnuplot with its output redirected to outname.
//The command is killed after timeout. The output file is closed on every path.
func (H *Handle) BandPlot(ctx context.Context, outname string, timeout time.Duration) (err error) {
	args := []string{"--gnuplot"}
	line := FormatCommand(H.bandplot, args...)
	H.log.Info("trying command", zap.String("command", line), zap.String("output", outname))
	out, err := os.Create(H.Path(outname))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, stderr, err := H.runner.Run(ctx, H.dir, out, H.bandplot, args...)
	if stderr = strings.TrimSpace(stderr); stderr != "" {
		H.log.Warn("phonopy-bandplot standard error", zap.String("stderr", stderr))
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s: %w after %s", line, ErrTimeout, timeout)
	}
	if err != nil {
		return phon.NewError(phon.ErrCommandFailed, "", line+": "+err.Error(), "BandPlot")
	}
	return nil
}
