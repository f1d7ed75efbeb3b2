/*
 * run.go, part of gophon.
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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"
	phon "github.com/rmera/gophon"
	"go.uber.org/zap"
)

//Runner executes an external command in dir. If stdout is not nil, the
//standard output of the command goes there; otherwise it is captured and
//returned, together with the standard error.
type Runner interface {
	Run(ctx context.Context, dir string, stdout io.Writer, name string, args ...string) (out, stderr string, err error)
}

//ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, stdout io.Writer, name string, args ...string) (string, string, error) {
	command := exec.CommandContext(ctx, name, args...)
	command.Dir = dir
	var outbuf, errbuf bytes.Buffer
	if stdout != nil {
		command.Stdout = stdout
	} else {
		command.Stdout = &outbuf
	}
	command.Stderr = &errbuf
	err := command.Run()
	return outbuf.String(), errbuf.String(), err
}

//FormatCommand returns a readable command line with shell-style quoting.
func FormatCommand(name string, args ...string) string {
	return shellescape.QuoteCommand(append([]string{name}, args...))
}

//run logs and executes a command, and turns a non-zero exit into a phon.ErrCommandFailed error.
func (H *Handle) run(ctx context.Context, caller string, args ...string) (string, error) {
	line := FormatCommand(H.command, args...)
	H.log.Info("running command", zap.String("command", line))
	out, stderr, err := H.runner.Run(ctx, H.dir, nil, H.command, args...)
	if out = strings.TrimSpace(out); out != "" {
		H.log.Info(out)
	}
	if stderr = strings.TrimSpace(stderr); stderr != "" {
		H.log.Info("standard error", zap.String("stderr", stderr))
	}
	if err != nil {
		msg := err.Error()
		var eerr *exec.ExitError
		if errors.As(err, &eerr) {
			msg = fmt.Sprintf("exit code %d", eerr.ExitCode())
		}
		H.log.Error("command failed", zap.String("command", line), zap.String("reason", msg))
		return out, phon.NewError(phon.ErrCommandFailed, "", line+": "+msg, caller)
	}
	return out, nil
}
