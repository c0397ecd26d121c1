/*
 * ortho_test.go, part of gosages.
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
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

//TestOrthogonalizer establishes a couple of directions and checks that
//Remove leaves nothing of a vector along them.
func TestOrthogonalizer(Te *testing.T) {
	or := NewOrthogonalizer(3)
	ok, err := or.Establish([]float64{2, 0, 0})
	if err != nil || !ok {
		Te.Fatal("could not establish the first direction", err)
	}
	//not normalized and not orthogonal to the first, both on purpose
	ok, err = or.Establish([]float64{3, 4, 0})
	if err != nil || !ok {
		Te.Fatal("could not establish the second direction", err)
	}
	if or.Len() != 2 {
		Te.Fatalf("established directions: got %d, want 2", or.Len())
	}
	v := []float64{3, 4, 5}
	if err := or.Remove(v); err != nil {
		Te.Fatal(err)
	}
	if !close6(v[0], 0) || !close6(v[1], 0) || !close6(v[2], 5) {
		Te.Errorf("removal left %v, want [0 0 5]", v)
	}
	for i := 0; i < or.Len(); i++ {
		d := or.Direction(i)
		if p := floats.Dot(v, d); math.Abs(p) > 1e-9 {
			Te.Errorf("projection on direction %d after removal: %v", i, p)
		}
	}
}

//TestOrthogonalizerDegenerate feeds a direction already spanned by the
//established ones and expects it to be skipped, not stored.
func TestOrthogonalizerDegenerate(Te *testing.T) {
	or := NewOrthogonalizer(2)
	if ok, err := or.Establish([]float64{1, 0}); err != nil || !ok {
		Te.Fatal("could not establish the first direction", err)
	}
	ok, err := or.Establish([]float64{5, 0})
	if err != nil {
		Te.Fatal(err)
	}
	if ok {
		Te.Error("a spanned direction was stored as new")
	}
	if or.Len() != 1 {
		Te.Errorf("established directions: got %d, want 1", or.Len())
	}
	//the zero vector spans nothing
	if ok, err := or.Establish([]float64{0, 0}); err != nil || ok {
		Te.Error("the zero vector should be skipped without an error", err)
	}
	//and wrong sizes are refused outright
	if _, err := or.Establish([]float64{1, 0, 0}); err == nil {
		Te.Error("a direction of the wrong size should be rejected")
	}
	if err := or.Remove([]float64{1}); err == nil {
		Te.Error("a vector of the wrong size should be rejected")
	}
	or.Reset()
	if or.Len() != 0 {
		Te.Error("reset did not drop the established directions")
	}
}
