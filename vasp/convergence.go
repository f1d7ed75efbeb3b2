/*
 * convergence.go, part of gophon.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	phon "github.com/rmera/gophon"
)

//Output files of VASP checked by gophon.
const (
	OUTCAR  = "OUTCAR"
	Vasprun = "vasprun.xml"
)

//The two markers that, together, mean a VASP run converged and ended normally.
//Both are plain substring matches on a line.
const (
	ThresholdMarker   = "aborting loop because EDIFF is reached"
	TerminationMarker = "Voluntary"
)

//State is the state of a convergence scan.
type State int

const (
	Scanning State = iota
	Converged
	Incomplete
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Converged:
		return "converged"
	case Incomplete:
		return "incomplete"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

//Scan is the two-flag state machine for the convergence check. Lines are fed
//one at a time; the order of the markers does not matter.
type Scan struct {
	SeenThreshold   bool
	SeenTermination bool
	done            bool
}

//Feed processes a line and returns the resulting state. Once both markers
//have been seen the state is Converged and further lines are ignored.
func (S *Scan) Feed(line string) State {
	if !S.SeenThreshold && strings.Contains(line, ThresholdMarker) {
		S.SeenThreshold = true
	}
	if !S.SeenTermination && strings.Contains(line, TerminationMarker) {
		S.SeenTermination = true
	}
	return S.State()
}

//End marks the end of the input and returns the final state.
func (S *Scan) End() State {
	S.done = true
	return S.State()
}

func (S *Scan) State() State {
	switch {
	case S.SeenThreshold && S.SeenTermination:
		return Converged
	case S.done:
		return Incomplete
	}
	return Scanning
}

//ConvergenceError reports a directory whose VASP run didn't converge or didn't end normally.
type ConvergenceError struct {
	Dir             string
	SeenThreshold   bool
	SeenTermination bool
}

func (err *ConvergenceError) Reasons() []string {
	var r []string
	if !err.SeenThreshold {
		r = append(r, "EDIFF not reached")
	}
	if !err.SeenTermination {
		r = append(r, "calculation did not end normally")
	}
	return r
}

func (err *ConvergenceError) Error() string {
	return fmt.Sprintf("%s not converged: %s", err.Dir, strings.Join(err.Reasons(), "/"))
}

func (err *ConvergenceError) Unwrap() error { return phon.ErrNotConverged }

//openLog opens the OUTCAR in dir. Compressed OUTCAR.gz and OUTCAR.zst files are
//decompressed on the fly if the plain file is not there.
func openLog(dir string) (io.ReadCloser, string, error) {
	for _, ext := range []string{"", ".gz", ".zst"} {
		name := filepath.Join(dir, OUTCAR+ext)
		f, err := os.Open(name)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, name, err
		}
		switch ext {
		case ".gz":
			r, err := gzip.NewReader(bufio.NewReader(f))
			if err != nil {
				f.Close()
				return nil, name, err
			}
			return closer{r, f}, name, nil
		case ".zst":
			r, err := zstd.NewReader(f)
			if err != nil {
				f.Close()
				return nil, name, err
			}
			return closer{r.IOReadCloser(), f}, name, nil
		}
		return f, name, nil
	}
	return nil, filepath.Join(dir, OUTCAR), os.ErrNotExist
}

//closer closes both the decompressor and the file under it.
type closer struct {
	io.ReadCloser
	file *os.File
}

func (c closer) Close() error {
	err := c.ReadCloser.Close()
	if ferr := c.file.Close(); err == nil {
		err = ferr
	}
	return err
}

//CheckConvergence checks that the OUTCAR in dir has both the EDIFF and the normal
//termination markers. The file is read line by line, with no limit on the line
//length, and the scan stops as soon as both have been found.
func CheckConvergence(dir string) error {
	f, name, err := openLog(dir)
	if os.IsNotExist(err) {
		return phon.NewError(phon.ErrMissingOutput, name, dir+" has no OUTCAR", "CheckConvergence")
	}
	if err != nil {
		return phon.NewError(phon.ErrUnreadableOutput, name, err.Error(), "CheckConvergence")
	}
	defer f.Close()
	scan := new(Scan)
	r := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := r.ReadString('\n')
		if line != "" && scan.Feed(strings.TrimRight(line, "\r\n")) == Converged {
			break
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return phon.NewError(phon.ErrUnreadableOutput, name, err.Error(), "CheckConvergence")
		}
	}
	if scan.End() != Converged {
		return &ConvergenceError{Dir: dir, SeenThreshold: scan.SeenThreshold, SeenTermination: scan.SeenTermination}
	}
	return nil
}
