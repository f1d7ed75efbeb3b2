/*
 * errors.go, part of gophon.
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

package phon

import (
	"errors"
	"fmt"
	"strings"
)

//Error kinds. Every error returned by gophon packages can be matched
//against one of these with errors.Is.
var (
	ErrMissingConfiguration    = errors.New("pre-processing configuration record not found, run the pre-processing stage first")
	ErrCorruptConfiguration    = errors.New("pre-processing configuration record is missing fields or corrupt, run the pre-processing stage again")
	ErrInvalidConfiguration    = errors.New("invalid campaign configuration")
	ErrPrecondition            = errors.New("required input missing")
	ErrCommandFailed           = errors.New("external command failed")
	ErrToolOutputMissing       = errors.New("external tool did not produce its expected output")
	ErrNoDisplacements         = errors.New("no displaced structures were produced")
	ErrMissingOutput           = errors.New("simulation log missing")
	ErrUnreadableOutput        = errors.New("simulation log could not be read")
	ErrNotConverged            = errors.New("calculation not converged")
	ErrUnconvergedBatch        = errors.New("unconverged work directories found")
	ErrMissingSimulationOutput = errors.New("simulation data file missing or empty")
	ErrEmptyAggregate          = errors.New("aggregate force set missing or empty")
	ErrInsufficientBandPath    = errors.New("a band path needs at least two high-symmetry points")
	ErrUnknownPoint            = errors.New("unknown high-symmetry point")
	ErrStructureFormat         = errors.New("wrong format in structure file")
)

//Error is the general error type for gophon. It carries the kind of the
//error, the file involved (if any), and a trail of the functions it went through.
//It fullfills the Decorator interface.
type Error struct {
	kind     error
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
}

//NewError returns an Error of the given kind. caller is the first element of the decoration trail.
func NewError(kind error, filename, message, caller string) *Error {
	e := &Error{kind: kind, message: message, filename: filename}
	if caller != "" {
		e.deco = []string{caller}
	}
	return e
}

func (err *Error) Error() string {
	var b strings.Builder
	b.WriteString(err.kind.Error())
	if err.filename != "" {
		fmt.Fprintf(&b, " (%s)", err.filename)
	}
	if err.message != "" {
		b.WriteString(": ")
		b.WriteString(err.message)
	}
	return b.String()
}

//Unwrap returns the kind of the error, so errors.Is works against the Err* values.
func (err *Error) Unwrap() error { return err.kind }

//Decorate adds the name of a caller to the error trail and returns the trail.
//If given an empty string, it just returns the current trail.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error.
func (err *Error) FileName() string { return err.filename }

//Decorator is implemented by errors that keep a trail of the functions they went through.
type Decorator interface {
	error
	Decorate(string) []string
}

//ErrDecorate adds caller to the trail of err if err implements Decorator,
//and returns err unchanged otherwise.
func ErrDecorate(err error, caller string) error {
	var d Decorator
	if errors.As(err, &d) {
		d.Decorate(caller)
	}
	return err
}

//Trail returns the decoration trail and the file of err, if err is, or wraps, an *Error.
func Trail(err error) ([]string, string) {
	var e *Error
	if !errors.As(err, &e) {
		return nil, ""
	}
	return e.Decorate(""), e.FileName()
}
