/*
 * driver.go, part of gophon.
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
	"errors"
	"fmt"
	"io"
	"time"

	phon "github.com/rmera/gophon"
	"github.com/rmera/gophon/bandplot"
	"github.com/rmera/gophon/kpath"
	"github.com/rmera/gophon/phonopy"
	"github.com/rmera/gophon/vasp"
	"go.uber.org/zap"
)

//PNGName is the band structure picture rendered after the post-processing stage.
const PNGName = "band.png"

//Warning is a problem that didn't stop the workflow.
type Warning struct {
	Step    string
	Message string
	Err     error
}

func (W Warning) String() string {
	if W.Err == nil {
		return W.Step + ": " + W.Message
	}
	return fmt.Sprintf("%s: %s (%v)", W.Step, W.Message, W.Err)
}

//Driver runs the stages of the workflow in one working directory.
type Driver struct {
	dir      string
	phonopy  *phonopy.Handle
	store    *Store
	resolver *kpath.Resolver
	out      io.Writer
	log      *zap.Logger
	timeout  time.Duration
	png      bool
}

//NewDriver returns a Driver working in dir. S can be nil, in which case the defaults are
//used. Band paths are asked through C, which can also be nil, and then the built-in
//default path is always used.
func NewDriver(dir string, S *Settings, C *Console, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	if S == nil {
		S = &Settings{Phonopy: "phonopy", BandPlot: "phonopy-bandplot", PlotTimeout: 30 * time.Second, StatePath: "workflow_state.yaml", KPathHelper: true}
	}
	H := phonopy.NewHandle(dir, log)
	H.SetCommand(S.Phonopy)
	H.SetBandPlotCommand(S.BandPlot)
	R := &kpath.Resolver{Log: log}
	D := &Driver{
		dir:      dir,
		phonopy:  H,
		store:    NewStore(dir, S.StatePath, log),
		resolver: R,
		out:      io.Discard,
		log:      log,
		timeout:  S.PlotTimeout,
		png:      S.PNG,
	}
	if C != nil {
		D.out = C.Out()
		R.Out = C.Out()
		R.Prompt = C
	}
	if S.KPathHelper {
		R.Helper = kpath.LatticeHelper{}
	}
	return D
}

//Phonopy returns the handle used to run phonopy. Its runner can be replaced.
func (D *Driver) Phonopy() *phonopy.Handle { return D.phonopy }

//Store returns the configuration store of the driver.
func (D *Driver) Store() *Store { return D.store }

//Run runs the stage in cfg. For the post-processing stage alone, cfg is replaced
//by the recorded configuration, and can be nil. Warnings are problems in the optional
//steps, the workflow still succeeded if err is nil.
func (D *Driver) Run(ctx context.Context, cfg *Config) ([]Warning, error) {
	if cfg == nil || cfg.Stage == Post {
		loaded, err := D.store.Load(Post)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Stage.RunsPre() {
		if err := D.Pre(ctx, cfg); err != nil {
			return nil, err
		}
	}
	if !cfg.Stage.RunsPost() {
		return nil, nil
	}
	return D.Post(ctx, cfg)
}

//Pre prepares the unit cell, generates the displaced supercells and records cfg.
func (D *Driver) Pre(ctx context.Context, cfg *Config) error {
	D.log.Info("pre-processing stage started")
	if cfg.POSCARPath == "" {
		return phon.NewError(phon.ErrPrecondition, "", "the pre-processing stage needs a POSCAR file", "Driver.Pre")
	}
	unitcell, err := PrepareUnitCell(ctx, D.phonopy, cfg.POSCARPath, cfg.ApplySymmetry, D.log)
	if err != nil {
		return err
	}
	if cell, err := phon.POSCARRead(unitcell); err == nil {
		D.log.Info("unit cell ready", zap.Int("atoms", cell.Len()), zap.Float64("volume", cell.Volume()))
	} else {
		D.log.Warn("could not read the unit cell", zap.Error(err))
	}
	dirs, err := GenerateDisplacements(ctx, D.phonopy, cfg, unitcell, D.log)
	if err != nil {
		return err
	}
	D.log.Info("displacement work directories ready", zap.Int("count", len(dirs)))
	if err := D.store.Save(cfg); err != nil {
		return err
	}
	D.log.Info("pre-processing stage finished, run VASP in each work directory before post-processing")
	return nil
}

//Post checks the VASP runs, collects the forces and computes the band structure.
//cfg is not modified.
func (D *Driver) Post(ctx context.Context, cfg *Config) ([]Warning, error) {
	D.log.Info("post-processing stage started")
	var warnings []Warning
	unitcell := D.phonopy.Path(phonopy.UnitCell)
	if !phon.NonEmpty(unitcell) {
		return nil, phon.NewError(phon.ErrPrecondition, unitcell, "POSCAR-unitcell not found, run the pre-processing stage first", "Driver.Post")
	}
	dirs, err := FindWorkDirs(D.dir, cfg)
	if err != nil {
		return nil, err
	}
	D.log.Info("work directories found", zap.Int("count", len(dirs)))
	if err := vasp.ValidateAll(dirs, D.log); err != nil {
		return nil, err
	}
	if _, err := AggregateForces(ctx, D.phonopy, dirs, D.log); err != nil {
		return nil, err
	}
	run := cfg.Copy()
	name, err := phon.AtomName(unitcell)
	if err != nil {
		w := Warning{Step: "atom name", Message: "using " + phon.DefaultAtomName, Err: err}
		D.log.Warn("could not read the atom name from POSCAR-unitcell", zap.String("using", phon.DefaultAtomName), zap.Error(err))
		warnings = append(warnings, w)
		name = phon.DefaultAtomName
	}
	run.AtomName = name
	path, err := D.resolver.Resolve(unitcell)
	if err != nil {
		return warnings, err
	}
	run.BandSequence = path.Sequence
	run.BandLabels = path.Labels
	conf := phonopy.BandSettings{
		AtomName: run.AtomName,
		Dims:     run.Dims,
		Points:   path.Points,
		NPoints:  run.BandPoints,
		Labels:   run.BandLabels,
	}
	if err := conf.Write(D.phonopy.Path(phonopy.BandConf)); err != nil {
		return warnings, err
	}
	D.log.Info("band.conf written", zap.String("atom_name", run.AtomName), zap.Strings("path", run.BandSequence))
	if err := D.phonopy.Band(ctx, phonopy.UnitCell, phonopy.BandConf); err != nil {
		return warnings, err
	}
	warnings = append(warnings, D.plot(ctx, run)...)
	D.log.Info("post-processing stage finished")
	return warnings, nil
}

//plot makes the band structure plots. Nothing here can fail the workflow.
func (D *Driver) plot(ctx context.Context, cfg *Config) []Warning {
	var warnings []Warning
	err := D.phonopy.BandPlot(ctx, phonopy.BandPlotOut, D.timeout)
	if err != nil {
		msg := "phonopy-bandplot failed"
		if errors.Is(err, phonopy.ErrTimeout) {
			msg = "phonopy-bandplot timed out"
		}
		D.log.Warn(msg, zap.Error(err))
		fmt.Fprintf(D.out, "%s, you can run it manually:\n  phonopy-bandplot --gnuplot > %s\n", msg, phonopy.BandPlotOut)
		warnings = append(warnings, Warning{Step: "bandplot", Message: msg, Err: err})
	}
	if !D.png {
		return warnings
	}
	png := D.phonopy.Path(PNGName)
	if err := bandplot.Save(D.phonopy.Path(phonopy.BandYAML), png, cfg.AtomName); err != nil {
		D.log.Warn("could not render the band structure picture", zap.Error(err))
		warnings = append(warnings, Warning{Step: "png", Message: "band structure picture not rendered", Err: err})
		return warnings
	}
	D.log.Info("band structure picture written", zap.String("file", png))
	return warnings
}

func formatKB(size int64) string {
	return fmt.Sprintf("%.1f kB", float64(size)/1024)
}
