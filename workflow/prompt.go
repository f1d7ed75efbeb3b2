/*
 * prompt.go, part of gophon.
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

//ErrNoInput is returned when the operator's input ends before a question is answered.
var ErrNoInput = errors.New("input closed before an answer was given")

//Console asks questions to the operator, one line per answer. Questions and
//answers are logged.
type Console struct {
	in  *bufio.Reader
	out io.Writer
	log *zap.Logger
}

//NewConsole returns a Console reading answers from in and writing questions to out.
func NewConsole(in io.Reader, out io.Writer, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{in: bufio.NewReader(in), out: out, log: log}
}

//Out returns the writer questions go to.
func (C *Console) Out() io.Writer { return C.out }

//Ask asks question until a non-empty answer is given. An empty line means def, if def is not empty.
func (C *Console) Ask(question, def string) (string, error) {
	text := question
	if def != "" {
		text += " [" + def + "]"
	}
	C.log.Info("prompt", zap.String("question", text))
	for {
		fmt.Fprintf(C.out, "%s: ", text)
		line, err := C.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return "", ErrNoInput
			}
			return "", err
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = def
		}
		C.log.Info("answer", zap.String("answer", answer))
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(C.out, "The answer can't be empty, please try again.")
	}
}

//Choice asks for one of the keys in order (described by descriptions) until a valid one is given.
func (C *Console) Choice(question string, keys, descriptions []string, def string) (string, error) {
	options := make([]string, 0, len(keys))
	for i, k := range keys {
		options = append(options, k+":"+descriptions[i])
	}
	for {
		answer, err := C.Ask(fmt.Sprintf("%s (%s)", question, strings.Join(options, "/")), def)
		if err != nil {
			return "", err
		}
		for _, k := range keys {
			if answer == k {
				return k, nil
			}
		}
		fmt.Fprintf(C.out, "Invalid option, please enter one of: %s.\n", strings.Join(keys, ", "))
	}
}

//YesNo asks a y/n question.
func (C *Console) YesNo(question string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	for {
		answer, err := C.Ask(question+" (y/n)", d)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(C.out, "Please answer y or n.")
	}
}

//PositiveInts asks for exactly count positive integers, separated by spaces.
func (C *Console) PositiveInts(question string, def []int) ([]int, error) {
	ds := make([]string, 0, len(def))
	for _, v := range def {
		ds = append(ds, strconv.Itoa(v))
	}
Outer:
	for {
		answer, err := C.Ask(question, strings.Join(ds, " "))
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(answer)
		if len(fields) != len(def) {
			fmt.Fprintf(C.out, "Please enter %d integers separated by spaces.\n", len(def))
			continue
		}
		ret := make([]int, 0, len(def))
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				fmt.Fprintln(C.out, "Please enter integers.")
				continue Outer
			}
			if v <= 0 {
				fmt.Fprintln(C.out, "Please enter positive integers.")
				continue Outer
			}
			ret = append(ret, v)
		}
		return ret, nil
	}
}
