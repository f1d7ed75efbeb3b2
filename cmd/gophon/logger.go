/*
 * logger.go, part of gophon.
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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006-01-02 15:04:05"

//logName returns the name of the log file for a session started at t.
func logName(t time.Time) string {
	return "workflow_" + t.Format("20060102_150405") + ".log"
}

//newLogger returns a logger that writes to console and to a new log file in dir.
//The returned function syncs the logger and closes the file.
func newLogger(dir string, console io.Writer, debug bool, now time.Time) (*zap.Logger, string, func(), error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	name := filepath.Join(dir, logName(now))
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to open log file: %w", err)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(console), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(file), level),
	)
	logger := zap.New(core)
	done := func() {
		_ = logger.Sync()
		file.Close()
	}
	return logger, name, done, nil
}
