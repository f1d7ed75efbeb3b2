/*
 * bandplot.go, part of gophon.
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

//Package bandplot draws phonon band structures read from phonopy's band.yaml.
package bandplot

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/rmera/gophon/phonopy"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Size of the saved figure.
const (
	Width  = 6 * vg.Inch
	Height = 4.5 * vg.Inch
)

//basicBandPlot returns a plot with the axes and labels set, but no data.
func basicBandPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.Y.Label.Text = "Frequency (THz)"
	p.X.Label.Text = "Wave vector"
	return p
}

//pointName turns a phonopy label into something that looks fine without a TeX renderer.
func pointName(label string) string {
	label = strings.Trim(strings.TrimSpace(label), "$")
	if label == `\Gamma` || strings.EqualFold(label, "gamma") || label == "G" {
		return "Γ"
	}
	return label
}

//ticks returns the x ticks at the segment ends, labeled with the path labels.
func ticks(B *phonopy.BandStructure) []plot.Tick {
	ends := B.SegmentEnds()
	names := make([]string, len(ends))
	for i, l := range B.Labels {
		if len(l) != 2 {
			continue
		}
		if i < len(names) && names[i] == "" {
			names[i] = pointName(l[0])
		} else if i < len(names) && pointName(l[0]) != names[i] {
			names[i] = names[i] + "|" + pointName(l[0])
		}
		if i+1 < len(names) {
			names[i+1] = pointName(l[1])
		}
	}
	t := make([]plot.Tick, 0, len(ends))
	for i, x := range ends {
		t = append(t, plot.Tick{Value: x, Label: names[i]})
	}
	return t
}

//Plot builds the band structure plot for B. Each branch is drawn as a line,
//and vertical lines mark the high-symmetry points.
func Plot(B *phonopy.BandStructure, title string) (*plot.Plot, error) {
	if B == nil || B.NBands() == 0 {
		return nil, fmt.Errorf("no bands to plot")
	}
	p := basicBandPlot(title)
	p.Add(plotter.NewGrid())
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for i := 0; i < B.NBands(); i++ {
		x, y := B.Branch(i)
		pts := make(plotter.XYs, len(x))
		for j := range x {
			pts[j].X = x[j]
			pts[j].Y = y[j]
			ymin = math.Min(ymin, y[j])
			ymax = math.Max(ymax, y[j])
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Width = vg.Points(1)
		l.LineStyle.Color = color.RGBA{B: 180, A: 255}
		p.Add(l)
	}
	t := ticks(B)
	for _, v := range t {
		seg, err := plotter.NewLine(plotter.XYs{{X: v.Value, Y: ymin}, {X: v.Value, Y: ymax}})
		if err != nil {
			return nil, err
		}
		seg.LineStyle.Color = color.Gray{Y: 100}
		seg.LineStyle.Width = vg.Points(0.5)
		p.Add(seg)
	}
	p.X.Tick.Marker = plot.ConstantTicks(t)
	if len(t) > 0 {
		p.X.Min = t[0].Value
		p.X.Max = t[len(t)-1].Value
	}
	return p, nil
}

//Save reads the band.yaml file bandyaml and saves the band structure plot to
//filename. The format is taken from the extension of filename (png, svg, pdf, eps...).
func Save(bandyaml, filename, title string) error {
	B, err := phonopy.ReadBandYAML(bandyaml)
	if err != nil {
		return err
	}
	p, err := Plot(B, title)
	if err != nil {
		return err
	}
	return p.Save(Width, Height, filename)
}
