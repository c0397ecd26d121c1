/*
 * restraint.go, part of gosages.
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

// Restraint is a pair of harmonic walls keeping one collective
// variable inside [Lower,Upper]. Outside that range the walls push
// back with a force linear in the excursion. The walls should sit at
// least one bin width outside the sampling grid on each side, so the
// sentinel slots see the excursions before the springs hide them.
type Restraint struct {
	Lower  float64
	Upper  float64
	Spring float64
}

//Force returns the wall force on a CV at x. Zero inside [Lower,Upper].
func (r Restraint) Force(x float64) float64 {
	if x < r.Lower {
		return r.Spring * (r.Lower - x)
	}
	if x > r.Upper {
		return r.Spring * (r.Upper - x)
	}
	return 0
}

//Active reports whether the walls push at x.
func (r Restraint) Active(x float64) bool {
	return r.Spring != 0 && (x < r.Lower || x > r.Upper)
}

func (r Restraint) check() error {
	if r.Lower > r.Upper || r.Spring < 0 {
		return SError{ErrBadRestraint, nil}
	}
	return nil
}

// RestraintPolicy decides how wall forces combine with the adaptive
// bias where both act.
type RestraintPolicy int

const (
	//Additive stacks the wall force on top of the bias.
	Additive RestraintPolicy = iota
	//Override replaces the bias with the wall force wherever the
	//walls push, so a walker deep in a wall feels only the spring.
	Override
)

//ParseRestraintPolicy turns the name of a policy into its value.
func ParseRestraintPolicy(name string) (RestraintPolicy, error) {
	switch name {
	case "additive", "":
		return Additive, nil
	case "override":
		return Override, nil
	}
	return Additive, SError{ErrBadPolicy, []string{"ParseRestraintPolicy: " + name}}
}

func (p RestraintPolicy) String() string {
	if p == Override {
		return "override"
	}
	return "additive"
}
