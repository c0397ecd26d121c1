/*
 * interfaces.go, part of gosages.
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

// Method is the contract between a biasing method and the simulation
// engine driving it. The engine calls PreSimulation once before the
// first step, PostIntegration after every integration step with a
// fresh Snapshot, and PostSimulation once at the end. PostIntegration
// returns the biasing force to apply on each collective variable
// during the next step.
type Method interface {

	//PreSimulation checks the run parameters against the snapshot and
	//allocates whatever the method needs. No other call is valid before it.
	PreSimulation(s *Snapshot) error

	//PostIntegration digests one step and returns the bias, one
	//component per collective variable.
	PostIntegration(s *Snapshot) ([]float64, error)

	//PostSimulation flushes accumulated state. The method is spent
	//afterwards.
	PostSimulation(s *Snapshot) error
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Adds information when passing the error up, and returns the resulting decoration slice. If passed an empty string, it just returns the current value.
	//The decorate slice should contain a list of functions in the calling stack, plus, for each function any relevant information, or nothing. If information is to be added to an element of the slice, it should be in this format: "FunctionName: Extra info"
}
