/*
 * settings.go, part of gophon.
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
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

//Settings are the knobs of a run that are not part of the campaign, read from the environment.
type Settings struct {
	Phonopy     string        `env:"GOPHON_PHONOPY" envDefault:"phonopy"`
	BandPlot    string        `env:"GOPHON_BANDPLOT" envDefault:"phonopy-bandplot"`
	PlotTimeout time.Duration `env:"GOPHON_PLOT_TIMEOUT" envDefault:"30s"`
	StatePath   string        `env:"GOPHON_STATE" envDefault:"workflow_state.yaml"`
	LogDir      string        `env:"GOPHON_LOG_DIR" envDefault:"."`
	Debug       bool          `env:"GOPHON_DEBUG"`
	KPathHelper bool          `env:"GOPHON_KPATH_HELPER" envDefault:"true"`
	PNG         bool          `env:"GOPHON_PNG" envDefault:"true"`
}

//ParseSettings reads the settings from the environment, with defaults for unset variables.
func ParseSettings() (*Settings, error) {
	s := new(Settings)
	if err := env.Parse(s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if s.PlotTimeout <= 0 {
		return nil, fmt.Errorf("GOPHON_PLOT_TIMEOUT must be positive, got %s", s.PlotTimeout)
	}
	return s, nil
}
