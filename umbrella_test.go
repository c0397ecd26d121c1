/*
 * umbrella_test.go, part of gosages.
 *
 * Copyright 2026 Hadi Ramezani
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

package sages

import (
	"bytes"
	"strings"
	"testing"
)

func TestUmbrella(Te *testing.T) {
	var log bytes.Buffer
	o := DefaultOptions()
	o.PrintEvery(1)
	o.WalkerLog(&log)
	u, err := NewUmbrella([]float64{3.0, -1.0}, []float64{2.0, 4.0}, o)
	if err != nil {
		Te.Fatal(err)
	}
	s := &Snapshot{CVs: []float64{2.5, 0.0}, Wdotp: []float64{0, 0}}
	if _, err := u.PostIntegration(s); err == nil {
		Te.Error("stepping before PreSimulation should fail")
	}
	if err := u.PreSimulation(s); err != nil {
		Te.Fatal(err)
	}
	bias, err := u.PostIntegration(s)
	if err != nil {
		Te.Fatal(err)
	}
	if !close6(bias[0], 2.0*(3.0-2.5)) {
		Te.Errorf("spring force on the first CV: got %v, want 1.0", bias[0])
	}
	if !close6(bias[1], 4.0*(-1.0-0.0)) {
		Te.Errorf("spring force on the second CV: got %v, want -4.0", bias[1])
	}
	if err := u.PostSimulation(s); err != nil {
		Te.Fatal(err)
	}
	line := log.String()
	if !strings.HasPrefix(line, "1 3 2.5 -1 0") {
		Te.Errorf("unexpected log line: %q", line)
	}
	if u.Iteration() != 1 {
		Te.Errorf("iterations: got %d, want 1", u.Iteration())
	}
}

func TestUmbrellaValidation(Te *testing.T) {
	if _, err := NewUmbrella(nil, nil); err == nil {
		Te.Error("an umbrella without targets should be rejected")
	}
	if _, err := NewUmbrella([]float64{1}, []float64{1, 2}); err == nil {
		Te.Error("mismatched targets and springs should be rejected")
	}
	if _, err := NewUmbrella([]float64{1}, []float64{-1}); err == nil {
		Te.Error("a negative spring should be rejected")
	}
	u, err := NewUmbrella([]float64{1, 2}, []float64{1, 1})
	if err != nil {
		Te.Fatal(err)
	}
	short := &Snapshot{CVs: []float64{0}, Wdotp: []float64{0}}
	if err := u.PreSimulation(short); err == nil {
		Te.Error("a snapshot with the wrong CV count should be rejected")
	}
}
