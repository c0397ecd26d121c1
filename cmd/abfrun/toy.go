/*
 * toy.go, part of gosages.
 *
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

package main

import (
	"math"
	"math/rand"

	sages "github.com/hadi-ramezani/gosages"
	"github.com/hadi-ramezani/gosages/config"
)

//the model landscape in units of kT
const (
	toyKT      = 1.0
	toyGamma   = 1.0
	toyBarrier = 2.0
)

// toy is a Brownian walker on an analytic landscape built over the
// configured CV ranges, standing in for an MD engine. Each
// non-periodic dimension gets a double well with its minima at the
// quarter points of the range; each periodic one gets a single
// sinusoidal barrier. It integrates all the forces it feels, the
// landscape, the noise and the applied bias, into Wdotp, exactly like
// a real engine projecting its momenta.
type toy struct {
	s        *sages.Snapshot
	lower    []float64
	upper    []float64
	periodic []bool
	dt       float64
	rng      *rand.Rand
}

func newToy(cfg *config.Config, seed int64) *toy {
	_, lower, upper, periodic := cfg.Shape()
	ncv := len(lower)
	t := new(toy)
	t.lower = lower
	t.upper = upper
	t.periodic = periodic
	t.dt = cfg.Method.Timestep
	t.rng = rand.New(rand.NewSource(seed))
	t.s = &sages.Snapshot{
		CVs:   make([]float64, ncv),
		Wdotp: make([]float64, ncv),
		Beta:  1.0 / toyKT,
	}
	for d := 0; d < ncv; d++ {
		//start in the lower well, or at the periodic minimum
		mid := 0.5 * (lower[d] + upper[d])
		if periodic[d] {
			t.s.CVs[d] = mid
		} else {
			t.s.CVs[d] = mid - 0.25*(upper[d]-lower[d])
		}
	}
	return t
}

//force returns the landscape force along dimension d at x.
func (t *toy) force(d int, x float64) float64 {
	lo, hi := t.lower[d], t.upper[d]
	length := hi - lo
	if t.periodic[d] {
		//U = b cos(2 pi (x-lo)/L), one barrier per period
		return toyBarrier * (2 * math.Pi / length) * math.Sin(2*math.Pi*(x-lo)/length)
	}
	//U = b (u^2-1)^2 with u=-1,1 at the quarter points
	q := 0.25 * length
	u := (x - 0.5*(lo+hi)) / q
	return -4 * toyBarrier * u * (u*u - 1) / q
}

//advance integrates one overdamped step under the applied bias, which
//may be nil before the first estimate exists.
func (t *toy) advance(bias []float64) {
	sigma := math.Sqrt(2 * toyKT * toyGamma / t.dt)
	for d := range t.s.CVs {
		f := t.force(d, t.s.CVs[d]) + sigma*t.rng.NormFloat64()
		if bias != nil {
			f += bias[d]
		}
		t.s.CVs[d] += f * t.dt / toyGamma
		t.s.Wdotp[d] += f * t.dt
	}
	t.s.Iteration++
}
