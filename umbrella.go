/*
 * umbrella.go, part of gosages.
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

package sages

import (
	"fmt"
	"io"
)

// Umbrella pins each collective variable to a target with a harmonic
// spring. It estimates nothing; the histogram of visited CV values is
// the output, collected downstream from the log lines.
type Umbrella struct {
	targets []float64
	springs []float64

	ncv        int
	iteration  int
	printEvery int
	walkerLog  io.Writer

	started bool
	bias    []float64
}

//NewUmbrella builds an umbrella method holding each CV at the matching
//target with the matching spring constant.
func NewUmbrella(targets, springs []float64, options ...*Options) (*Umbrella, error) {
	if len(targets) == 0 || len(targets) != len(springs) {
		return nil, SError{ErrBadRestraint, []string{"NewUmbrella"}}
	}
	for _, k := range springs {
		if k < 0 {
			return nil, SError{ErrBadRestraint, []string{"NewUmbrella"}}
		}
	}
	u := new(Umbrella)
	u.targets = append([]float64{}, targets...)
	u.springs = append([]float64{}, springs...)
	u.ncv = len(targets)
	if len(options) > 0 && options[0] != nil {
		o := options[0]
		if o.printEvery < 0 {
			return nil, SError{ErrBadInterval, []string{"NewUmbrella"}}
		}
		u.printEvery = o.printEvery
		u.walkerLog = o.walkerLog
	}
	return u, nil
}

//PreSimulation readies the method for stepping.
func (u *Umbrella) PreSimulation(s *Snapshot) error {
	if u.started {
		return SError{ErrBadPhase, []string{"PreSimulation"}}
	}
	if err := s.check(u.ncv); err != nil {
		return errDecorate(err, "PreSimulation")
	}
	u.iteration = s.Iteration
	u.bias = make([]float64, u.ncv)
	u.started = true
	return nil
}

//PostIntegration returns the spring force pulling each CV back to its
//target. The returned slice is reused by the next call.
func (u *Umbrella) PostIntegration(s *Snapshot) ([]float64, error) {
	if !u.started {
		return nil, SError{ErrNotStarted, []string{"PostIntegration"}}
	}
	if err := s.check(u.ncv); err != nil {
		return nil, errDecorate(err, "PostIntegration")
	}
	u.iteration++
	for c := 0; c < u.ncv; c++ {
		u.bias[c] = u.springs[c] * (u.targets[c] - s.CVs[c])
	}
	if u.printEvery > 0 && u.iteration%u.printEvery == 0 && u.walkerLog != nil {
		fmt.Fprintf(u.walkerLog, "%d", u.iteration)
		for c, v := range s.CVs {
			fmt.Fprintf(u.walkerLog, " %.6g %.6g", u.targets[c], v)
		}
		fmt.Fprint(u.walkerLog, "\n")
	}
	return u.bias, nil
}

//PostSimulation is a no-op for umbrella sampling; the log lines are
//the whole output.
func (u *Umbrella) PostSimulation(s *Snapshot) error {
	if !u.started {
		return SError{ErrNotStarted, []string{"PostSimulation"}}
	}
	return nil
}

//Iteration returns how many steps the method has digested.
func (u *Umbrella) Iteration() int {
	return u.iteration
}

//Targets returns a copy of the per-CV target values.
func (u *Umbrella) Targets() []float64 {
	return append([]float64{}, u.targets...)
}
