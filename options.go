/*
 * options.go, part of gosages.
 *
 * Copyright 2026 Hadi Ramezani
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package sages

import (
	"io"

	"github.com/hadi-ramezani/gosages/ensemble"
)

//Options collects the knobs shared by the biasing methods. Get one
//from DefaultOptions and adjust what differs with the setters.
type Options struct {
	minCount    int
	timestep    float64
	unitconv    float64
	reduceEvery int
	printEvery  int
	backupEvery int
	policy      RestraintPolicy
	ortho       bool
	restraints  []Restraint
	walker      *ensemble.Walker
	walkerLog   io.Writer
	filename    string

	checkpointPath  string
	checkpointEvery int
	archive         Archive
	runID           string
}

//Returns an Options with the default options.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.minCount = 1
	ret.timestep = 1.0
	ret.unitconv = 1.0
	ret.reduceEvery = 1
	ret.printEvery = 0
	ret.backupEvery = -1
	ret.policy = Additive
	return ret
}

//Returns the minimum number of hits a bin needs before its estimate is
//fully trusted, and sets it, if a valid value is given.
func (r *Options) MinCount(min ...int) int {
	ret := r.minCount
	if len(min) > 0 && min[0] >= 0 {
		r.minCount = min[0]
	}
	return ret
}

//Returns the integration timestep of the driving engine and sets it,
//if a valid value is given.
func (r *Options) Timestep(dt ...float64) float64 {
	ret := r.timestep
	if len(dt) > 0 && dt[0] > 0 {
		r.timestep = dt[0]
	}
	return ret
}

//Returns the conversion factor from d(momentum)/d(time) to the force
//units of the engine and sets it, if a valid value is given. Getting
//this factor wrong silently wrecks the estimates, so it deserves the
//same care as the timestep.
func (r *Options) UnitConversion(u ...float64) float64 {
	ret := r.unitconv
	if len(u) > 0 && u[0] != 0 {
		r.unitconv = u[0]
	}
	return ret
}

//Returns every how many steps the walkers synchronize their statistics
//and sets it, if a valid value is given.
func (r *Options) ReduceEvery(n ...int) int {
	ret := r.reduceEvery
	if len(n) > 0 && n[0] > 0 {
		r.reduceEvery = n[0]
	}
	return ret
}

//Returns every how many steps a progress line goes to the walker log
//(0 for never) and sets it, if a valid value is given.
func (r *Options) PrintEvery(n ...int) int {
	ret := r.printEvery
	if len(n) > 0 && n[0] >= 0 {
		r.printEvery = n[0]
	}
	return ret
}

//Returns every how many steps the running mean-force table is written
//out (-1 for never) and sets it, if a valid value is given.
func (r *Options) BackupEvery(n ...int) int {
	ret := r.backupEvery
	if len(n) > 0 && (n[0] > 0 || n[0] == -1) {
		r.backupEvery = n[0]
	}
	return ret
}

//Returns how wall forces combine with the bias and sets it, if given.
func (r *Options) Policy(p ...RestraintPolicy) RestraintPolicy {
	ret := r.policy
	if len(p) > 0 {
		r.policy = p[0]
	}
	return ret
}

//Returns whether the bias is orthogonalized against the established CV
//directions and sets it, if given.
func (r *Options) Orthogonalization(on ...bool) bool {
	ret := r.ortho
	if len(on) > 0 {
		r.ortho = on[0]
	}
	return ret
}

//Returns the per-CV restraint walls and sets them, if given. The slice
//is kept, not copied.
func (r *Options) Restraints(walls ...[]Restraint) []Restraint {
	ret := r.restraints
	if len(walls) > 0 {
		r.restraints = walls[0]
	}
	return ret
}

//Returns the handle this walker uses to synchronize with the rest of
//the ensemble, and sets it, if given. A nil handle means the walker
//runs alone.
func (r *Options) Walker(wk ...*ensemble.Walker) *ensemble.Walker {
	ret := r.walker
	if len(wk) > 0 {
		r.walker = wk[0]
	}
	return ret
}

//Returns the writer for per-walker progress lines and sets it, if
//given.
func (r *Options) WalkerLog(w ...io.Writer) io.Writer {
	ret := r.walkerLog
	if len(w) > 0 {
		r.walkerLog = w[0]
	}
	return ret
}

//Returns the path of the mean-force table written by the method and
//sets it, if given. An empty path disables the file.
func (r *Options) Filename(name ...string) string {
	ret := r.filename
	if len(name) > 0 {
		r.filename = name[0]
	}
	return ret
}

//Returns the path the driver checkpoints to and sets it, if given. An
//empty path disables checkpointing. The extension picks the
//compression, as in the checkpoint package.
func (r *Options) CheckpointPath(path ...string) string {
	ret := r.checkpointPath
	if len(path) > 0 {
		r.checkpointPath = path[0]
	}
	return ret
}

//Returns every how many steps the driver checkpoints (0 for only at
//the end) and sets it, if a valid value is given.
func (r *Options) CheckpointEvery(n ...int) int {
	ret := r.checkpointEvery
	if len(n) > 0 && n[0] >= 0 {
		r.checkpointEvery = n[0]
	}
	return ret
}

//Returns the archive the driver records runs and epochs into, and sets
//it, if given. A nil archive means no recording.
func (r *Options) ArchiveTo(a ...Archive) Archive {
	ret := r.archive
	if len(a) > 0 {
		r.archive = a[0]
	}
	return ret
}

//Returns the identity the driver runs under and sets it, if given.
//Leave it unset to get a fresh one; set it to the stored identity when
//resuming from a checkpoint.
func (r *Options) RunID(id ...string) string {
	ret := r.runID
	if len(id) > 0 {
		r.runID = id[0]
	}
	return ret
}
