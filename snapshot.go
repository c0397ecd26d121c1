/*
 * snapshot.go, part of gosages.
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

// Snapshot carries what the simulation engine knows at one step and a
// biasing method needs: the collective variable values and the
// projection of the momenta on each CV direction. The engine owns the
// slices; methods copy what they keep.
type Snapshot struct {
	//Step counter of the engine.
	Iteration int
	//Current value of each collective variable.
	CVs []float64
	//Projection of the momenta on each CV direction (w dot p). Its
	//time derivative, in the engine's units, is the generalized force.
	Wdotp []float64
	//Inverse temperature of the run, if the engine tracks it.
	Beta float64
	//Direction of each CV in some engine basis, one row per CV. Only
	//needed when orthogonalization is on and the CVs are not
	//independent; nil means mutually independent CVs.
	CVDirs [][]float64
}

//check verifies that the snapshot carries ncv collective variables
//with their projections.
func (s *Snapshot) check(ncv int) error {
	if s == nil {
		return SError{ErrNilSnapshot, nil}
	}
	if len(s.CVs) != ncv || len(s.Wdotp) != ncv {
		return SError{ErrBadSnapshot, nil}
	}
	if s.CVDirs != nil && len(s.CVDirs) != ncv {
		return SError{ErrBadSnapshot, []string{"CVDirs"}}
	}
	return nil
}
