/*
 * errors.go, part of gosages.
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

//Errors

//errDecorate asserts that err implements Error and adds the caller's
//name to it before returning it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return SError{err.Error(), []string{caller}}
	}
	err2.Decorate(caller)
	return err2
}

//SError is the general error structure for the methods in this
//package. It fullfills the Error interface.
type SError struct {
	msg  string
	deco []string
}

func (err SError) Error() string { return err.msg }

//Decorate adds new information to the error
func (E SError) Decorate(deco string) []string {
	//Not a pointer receiver, but it still works: E.deco is a slice,
	//and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

const (
	ErrNilSnapshot  = "goSAGES: Given nil snapshot"
	ErrBadSnapshot  = "goSAGES: Snapshot does not match the number of collective variables"
	ErrBadTimestep  = "goSAGES: The timestep must be positive"
	ErrBadMinCount  = "goSAGES: The minimum count cannot be negative"
	ErrBadRestraint = "goSAGES: Every restraint needs lower<=upper and a non-negative spring"
	ErrBadPolicy    = "goSAGES: Unknown restraint policy"
	ErrBadInterval  = "goSAGES: Intervals must be positive"
	ErrBadRestore   = "goSAGES: Stored state does not match the method's shape"
	ErrNotStarted   = "goSAGES: The method was not started with PreSimulation"
	ErrBadPhase     = "goSAGES: Call does not match the current phase of the run"
	ErrSpent        = "goSAGES: The run already finished"
	ErrNilMethod    = "goSAGES: Given nil method"
)
