/*
 * main.go, part of gophon.
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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	phon "github.com/rmera/gophon"
	"github.com/rmera/gophon/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "gophon",
	Short: "Phonon band structures with phonopy and VASP",
	Long: `gophon prepares the displaced supercells for a finite-displacement phonon
calculation (pre-processing), and once VASP has run in every work directory,
checks the runs, collects the forces and computes the phonon band structure
(post-processing). The parameters of a campaign are asked interactively and
recorded between stages.

Settings are read from the environment: GOPHON_PHONOPY, GOPHON_BANDPLOT,
GOPHON_PLOT_TIMEOUT, GOPHON_STATE, GOPHON_LOG_DIR, GOPHON_DEBUG,
GOPHON_KPATH_HELPER and GOPHON_PNG.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return session(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log debug messages")
}

//session runs one interactive workflow session in the current directory.
func session(ctx context.Context, in io.Reader, out io.Writer) error {
	settings, err := workflow.ParseSettings()
	if err != nil {
		return err
	}
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	logger, logfile, done, err := newLogger(settings.LogDir, out, debug || settings.Debug, time.Now())
	if err != nil {
		return err
	}
	defer done()
	logger.Info("gophon session started", zap.String("dir", dir), zap.String("log", logfile))
	logger.Debug("settings", zap.Any("settings", settings))

	console := workflow.NewConsole(in, out, logger)
	stage, err := workflow.ChooseStage(console)
	if err != nil {
		return err
	}
	logger.Info("stage selected", zap.String("stage", string(stage)))
	var cfg *workflow.Config
	if stage.RunsPre() {
		cfg, err = workflow.Collect(console, dir, stage)
		if err != nil {
			return err
		}
	}
	driver := workflow.NewDriver(dir, settings, console, logger)
	warnings, err := driver.Run(ctx, cfg)
	if err != nil {
		trail, file := phon.Trail(err)
		logger.Error("workflow failed", zap.String("stage", string(stage)), zap.Error(err),
			zap.Strings("trail", trail), zap.String("file", file))
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted: %w", err)
		}
		return err
	}
	for _, w := range warnings {
		logger.Warn("warning", zap.String("detail", w.String()))
	}
	logger.Info("workflow finished", zap.String("stage", string(stage)), zap.Int("warnings", len(warnings)))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gophon:", err)
		os.Exit(1)
	}
}
