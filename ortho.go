/*
 * ortho.go, part of gosages.
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
	"gonum.org/v1/gonum/mat"
)

//a direction whose residual keeps less than this fraction of its
//length after the established projections are removed adds nothing
//numerically usable, so it is skipped.
const orthoTol = 1e-9

// Orthogonalizer builds an orthonormal set of directions with the
// modified Gram-Schmidt scheme and removes their components from
// vectors. Directions are processed in the order they are established,
// so the result does not depend on map iteration or anything else
// unstable.
type Orthogonalizer struct {
	dim  int
	dirs []*mat.VecDense
}

//NewOrthogonalizer returns an empty orthogonalizer for vectors of the
//given dimension.
func NewOrthogonalizer(dim int) *Orthogonalizer {
	o := new(Orthogonalizer)
	o.dim = dim
	return o
}

//Dim returns the dimension of the vectors handled.
func (o *Orthogonalizer) Dim() int {
	return o.dim
}

//Len returns how many directions are established.
func (o *Orthogonalizer) Len() int {
	return len(o.dirs)
}

//Reset forgets all established directions.
func (o *Orthogonalizer) Reset() {
	o.dirs = o.dirs[:0]
}

//Establish orthonormalizes dir against the directions established so
//far and stores the result. It returns false, with no error, when dir
//is (numerically) a combination of the established ones and was
//skipped, which is what degenerate collective variables produce.
func (o *Orthogonalizer) Establish(dir []float64) (bool, error) {
	if len(dir) != o.dim {
		return false, SError{ErrBadSnapshot, []string{"Establish"}}
	}
	v := mat.NewVecDense(o.dim, append([]float64{}, dir...))
	n := mat.Norm(v, 2)
	if n < orthoTol {
		return false, nil
	}
	v.ScaleVec(1/n, v)
	for _, d := range o.dirs {
		v.AddScaledVec(v, -mat.Dot(v, d), d)
	}
	r := mat.Norm(v, 2)
	if r < orthoTol {
		return false, nil
	}
	v.ScaleVec(1/r, v)
	o.dirs = append(o.dirs, v)
	return true, nil
}

//Remove subtracts from f, in place, its components along every
//established direction. Afterwards the projection of f on each of
//them is zero, up to roundoff.
func (o *Orthogonalizer) Remove(f []float64) error {
	if len(f) != o.dim {
		return SError{ErrBadSnapshot, []string{"Remove"}}
	}
	v := mat.NewVecDense(o.dim, f) //a view, the subtractions write through
	for _, d := range o.dirs {
		v.AddScaledVec(v, -mat.Dot(v, d), d)
	}
	return nil
}

//Direction copies out the i-th established (orthonormal) direction.
func (o *Orthogonalizer) Direction(i int, dest ...[]float64) []float64 {
	var d []float64
	if len(dest) > 0 && len(dest[0]) == o.dim {
		d = dest[0]
	} else {
		d = make([]float64, o.dim)
	}
	copy(d, o.dirs[i].RawVector().Data)
	return d
}
