/*
 * doc.go, part of gosages.
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
 */

/*Package sages implements enhanced-sampling methods over collective
variables, independent of any particular simulation engine. The engine
side is expected to compute the collective variables and their
projections each step and hand them over in a Snapshot; this library
answers with the biasing force to apply.


	**goSAGES Capabilities**


    Adaptive biasing force (ABF) over any number of collective
	variables, with per-bin minimum-count damping of the early
	estimates.

    A generic N-dimensional grid over CV space, with periodic
	dimensions folded and out-of-range excursions kept in explicit
	underflow/overflow slots.

    Multiple-walker sampling: any number of walkers accumulate into
	shared totals through an in-process reduction hub, so every
	walker biases with the full ensemble history.

    Harmonic restraint walls that keep walkers inside the region of
	interest, either added to the ABF bias or overriding it.

    Optional orthogonalization of the bias against previously
	established directions, for collective variables that are not
	independent.

    Umbrella (harmonic target) biasing, sharing the same Method
	contract as ABF.

    Checkpointing of the full method state to plain or compressed
	JSON documents, and restarting from them.

    Free-energy surface estimation from the accumulated mean force,
	as text tables and, for one CV, plots.

The per-bin statistics live in the grid and histo subpackages, the
walker synchronization in ensemble, and persistence in checkpoint. The
config subpackage reads a whole run from a TOML document.*/
package sages
