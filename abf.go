/*
 * abf.go, part of gosages.
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
	"log"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/hadi-ramezani/gosages/checkpoint"
	"github.com/hadi-ramezani/gosages/ensemble"
	"github.com/hadi-ramezani/gosages/histo"
)

// ABF is the adaptive biasing force method. Each step it estimates the
// instantaneous generalized force on every collective variable from
// the change in Wdotp, banks it in the bin the system is visiting, and
// returns the running mean force of that bin as the bias for the next
// step. Once the landscape is flat to the walker, the statistics ARE
// the free-energy gradient.
//
// The estimate in a bin is only trusted once the bin has minCount
// samples; before that the bias is scaled down proportionally, which
// keeps the early noise from kicking the system around.
type ABF struct {
	local *histo.Stats //this walker's own statistics, cumulative
	world *histo.Stats //whole-ensemble statistics, replaced on every reduction

	restraints []Restraint
	policy     RestraintPolicy
	minCount   int
	timestep   float64
	unitconv   float64
	beta       float64

	wdotpold []float64 //last step's momentum projections
	fold     []float64 //the force vector we actually applied last step

	orthogonalization bool
	ortho             *Orthogonalizer

	ncv         int
	iteration   int
	reduceEvery int
	printEvery  int
	backupEvery int
	filename    string

	walker    *ensemble.Walker
	walkerLog io.Writer

	started bool
	done    bool

	sample []float64
	bias   []float64
}

//NewABF builds an ABF method sampling on the given grid shape. The
//options carry everything else; pass none to run a single walker with
//the defaults.
func NewABF(points []int, lower, upper []float64, periodic []bool, options ...*Options) (*ABF, error) {
	var o *Options
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	local, err := histo.New(points, lower, upper, periodic)
	if err != nil {
		return nil, errDecorate(err, "NewABF")
	}
	a := new(ABF)
	a.local = local
	a.world = histo.NewLike(local)
	a.ncv = local.NCV()
	if o.timestep <= 0 {
		return nil, SError{ErrBadTimestep, []string{"NewABF"}}
	}
	if o.minCount < 0 {
		return nil, SError{ErrBadMinCount, []string{"NewABF"}}
	}
	if o.unitconv == 0 {
		o.unitconv = 1.0
	}
	if o.reduceEvery < 1 || o.printEvery < 0 || (o.backupEvery < 1 && o.backupEvery != -1) {
		return nil, SError{ErrBadInterval, []string{"NewABF"}}
	}
	a.timestep = o.timestep
	a.minCount = o.minCount
	a.unitconv = o.unitconv
	a.reduceEvery = o.reduceEvery
	a.printEvery = o.printEvery
	a.backupEvery = o.backupEvery
	a.policy = o.policy
	a.orthogonalization = o.ortho
	a.walker = o.walker
	a.walkerLog = o.walkerLog
	a.filename = o.filename
	if o.restraints != nil {
		if len(o.restraints) != a.ncv {
			return nil, SError{ErrBadRestraint, []string{"NewABF"}}
		}
		for _, r := range o.restraints {
			if err := r.check(); err != nil {
				return nil, errDecorate(err, "NewABF")
			}
		}
		a.restraints = o.restraints
		a.warnTightRestraints()
	}
	return a, nil
}

//the walls should sit at least one bin outside the grid on each side,
//so excursions reach the sentinel slots before the springs turn them
//around. Tighter walls still run, but contaminate the edge bins.
func (a *ABF) warnTightRestraints() {
	g := a.local.Grid()
	lower, upper, spacing := g.Lower(), g.Upper(), g.Spacing()
	for c, r := range a.restraints {
		if r.Spring == 0 {
			continue
		}
		if r.Lower > lower[c]-spacing[c] || r.Upper < upper[c]+spacing[c] {
			log.Printf("goSAGES/ABF: the restraint on CV %d sits less than one bin outside the grid", c)
		}
	}
}

//PreSimulation readies the method for stepping. On a freshly built
//method it allocates the step memory; on a restored one it keeps the
//restored state and only picks up what the snapshot knows.
func (a *ABF) PreSimulation(s *Snapshot) error {
	if a.started {
		return SError{ErrBadPhase, []string{"PreSimulation"}}
	}
	if err := s.check(a.ncv); err != nil {
		return errDecorate(err, "PreSimulation")
	}
	if a.wdotpold == nil {
		a.wdotpold = make([]float64, a.ncv)
		a.fold = make([]float64, a.ncv)
		a.iteration = s.Iteration
	}
	a.sample = make([]float64, a.ncv)
	a.bias = make([]float64, a.ncv)
	a.beta = s.Beta
	a.started = true
	return nil
}

//PostIntegration digests one step and returns the force to apply on
//each CV during the next one. The returned slice is reused by the next
//call, so the engine should use it before stepping again, which it
//does anyway.
func (a *ABF) PostIntegration(s *Snapshot) ([]float64, error) {
	if !a.started {
		return nil, SError{ErrNotStarted, []string{"PostIntegration"}}
	}
	if a.done {
		return nil, SError{ErrSpent, []string{"PostIntegration"}}
	}
	if err := s.check(a.ncv); err != nil {
		return nil, errDecorate(err, "PostIntegration")
	}
	a.iteration++
	//the instantaneous generalized force: backward difference of the
	//momentum projections, minus whatever we pushed with last step.
	for c := 0; c < a.ncv; c++ {
		a.sample[c] = (s.Wdotp[c]-a.wdotpold[c])/a.timestep*a.unitconv - a.fold[c]
	}
	idx, err := a.local.Grid().Indices(s.CVs)
	if err != nil {
		return nil, errDecorate(err, "PostIntegration")
	}
	if err := a.local.Record(idx, a.sample); err != nil {
		return nil, errDecorate(err, "PostIntegration")
	}
	if a.iteration%a.reduceEvery == 0 {
		if err := a.reduce(); err != nil {
			return nil, errDecorate(err, "PostIntegration")
		}
	}
	//the bias is the ensemble's running mean force in this bin.
	//Sentinel slots collect statistics but never pay bias: out there
	//only the walls act.
	if a.local.Grid().Interior(idx) {
		off, _ := a.local.Grid().Offset(idx)
		a.world.MeanForce(off, a.minCount, a.bias)
	} else {
		for c := range a.bias {
			a.bias[c] = 0
		}
	}
	if a.orthogonalization && s.CVDirs != nil {
		if err := a.orthogonalizeBias(s.CVDirs); err != nil {
			return nil, errDecorate(err, "PostIntegration")
		}
	}
	for c, r := range a.restraints {
		if a.policy == Override && r.Active(s.CVs[c]) {
			a.bias[c] = r.Force(s.CVs[c])
		} else {
			a.bias[c] += r.Force(s.CVs[c])
		}
	}
	copy(a.fold, a.bias)
	copy(a.wdotpold, s.Wdotp)
	if a.printEvery > 0 && a.iteration%a.printEvery == 0 && a.walkerLog != nil {
		a.printLine(s)
	}
	if a.backupEvery > 0 && a.iteration%a.backupEvery == 0 {
		a.backup()
	}
	return a.bias, nil
}

//PostSimulation runs one last synchronization and writes the final
//mean-force table. The method cannot step afterwards.
func (a *ABF) PostSimulation(s *Snapshot) error {
	if !a.started {
		return SError{ErrNotStarted, []string{"PostSimulation"}}
	}
	if a.done {
		return SError{ErrSpent, []string{"PostSimulation"}}
	}
	if err := a.reduce(); err != nil {
		return errDecorate(err, "PostSimulation")
	}
	a.done = true
	if a.filename == "" {
		return nil
	}
	f, err := os.Create(a.filename)
	if err != nil {
		return SError{"goSAGES/ABF: could not write the final table: " + err.Error(), []string{"PostSimulation"}}
	}
	defer f.Close()
	if err := a.WriteWorld(f); err != nil {
		return errDecorate(err, "PostSimulation")
	}
	return nil
}

//reduce folds this walker's cumulative statistics into the ensemble
//totals and replaces the world view with the result. Running alone,
//the world is just a copy of the local view.
func (a *ABF) reduce() error {
	if a.walker == nil {
		return a.world.CopyFrom(a.local)
	}
	counts, forces, err := a.walker.AllReduce(a.local.Counts(), a.local.Forces())
	if err != nil {
		return err
	}
	return a.world.SetRaw(counts, forces)
}

//orthogonalizeBias mixes the per-CV bias so the force the engine
//assembles from non-orthogonal CV directions does not double-count
//their shared components. The directions are processed in CV order;
//degenerate rows drop out and their CVs get the bias their direction
//already receives from earlier CVs.
func (a *ABF) orthogonalizeBias(rows [][]float64) error {
	dim := len(rows[0])
	for _, r := range rows {
		if len(r) != dim {
			return SError{ErrBadSnapshot, []string{"orthogonalizeBias"}}
		}
	}
	if a.ortho == nil || a.ortho.Dim() != dim {
		a.ortho = NewOrthogonalizer(dim)
	} else {
		a.ortho.Reset()
	}
	total := make([]float64, dim)
	u := make([]float64, dim)
	for c, r := range rows {
		ok, err := a.ortho.Establish(r)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		a.ortho.Direction(a.ortho.Len()-1, u)
		floats.AddScaled(total, a.bias[c], u)
	}
	for j, r := range rows {
		n := floats.Norm(r, 2)
		if n < orthoTol {
			a.bias[j] = 0
			continue
		}
		a.bias[j] = floats.Dot(total, r) / n
	}
	return nil
}

func (a *ABF) printLine(s *Snapshot) {
	fmt.Fprintf(a.walkerLog, "%d", a.iteration)
	for _, v := range s.CVs {
		fmt.Fprintf(a.walkerLog, " %.6g", v)
	}
	for _, v := range a.bias {
		fmt.Fprintf(a.walkerLog, " %.6g", v)
	}
	fmt.Fprint(a.walkerLog, "\n")
}

//backup overwrites the mean-force table mid-run. Losing one backup is
//not worth killing the run for, so failures only warn.
func (a *ABF) backup() {
	if a.filename == "" {
		return
	}
	f, err := os.Create(a.filename)
	if err != nil {
		log.Printf("goSAGES/ABF: could not back up the mean-force table: %v", err)
		return
	}
	defer f.Close()
	if err := a.WriteWorld(f); err != nil {
		log.Printf("goSAGES/ABF: could not back up the mean-force table: %v", err)
	}
}

//WriteWorld writes the ensemble mean-force table: one line per
//interior bin with the bin center, the ensemble hit count and the
//damped mean-force estimate for each CV.
func (a *ABF) WriteWorld(w io.Writer) error {
	g := a.world.Grid()
	_, err := fmt.Fprintf(w, "#iteration %d walkers %d\n", a.iteration, a.walkers())
	if err != nil {
		return SError{"goSAGES/ABF: " + err.Error(), []string{"WriteWorld"}}
	}
	counts := a.world.Counts()
	est := make([]float64, a.ncv)
	g.EachInterior(func(idx []int, off int) {
		c, _ := g.Center(idx)
		for _, v := range c {
			fmt.Fprintf(w, "%.6g ", v)
		}
		fmt.Fprintf(w, "%d", counts[off])
		a.world.MeanForce(off, a.minCount, est)
		for _, v := range est {
			fmt.Fprintf(w, " %.6g", v)
		}
		fmt.Fprint(w, "\n")
	})
	return nil
}

func (a *ABF) walkers() int {
	if a.walker == nil {
		return 1
	}
	return a.walker.Size()
}

//Iteration returns how many steps the method has digested, counting
//the ones restored from a checkpoint.
func (a *ABF) Iteration() int {
	return a.iteration
}

//NCV returns the number of collective variables.
func (a *ABF) NCV() int {
	return a.ncv
}

//MinCount returns the trust floor for bin estimates.
func (a *ABF) MinCount() int {
	return a.minCount
}

//World returns the ensemble statistics view. It is replaced wholesale
//on every reduction, so keep the pointer, not the contents.
func (a *ABF) World() *histo.Stats {
	return a.world
}

//Local returns this walker's own cumulative statistics.
func (a *ABF) Local() *histo.Stats {
	return a.local
}

//Checkpoint captures the method's full state. Running alone the world
//view is synchronized first, so the document always carries the
//freshest totals this walker can see.
func (a *ABF) Checkpoint() *checkpoint.Document {
	if a.walker == nil {
		a.world.CopyFrom(a.local)
	}
	g := a.world.Grid()
	doc := new(checkpoint.Document)
	doc.Method = "abf"
	doc.Walkers = a.walkers()
	doc.Iteration = a.iteration
	doc.Points = g.NPoints()
	doc.Lower = g.Lower()
	doc.Upper = g.Upper()
	doc.Periodic = g.Periodic()
	doc.Counts = append([]int{}, a.world.Counts()...)
	doc.Forces = append([]float64{}, a.world.Forces()...)
	doc.Wdotpold = append([]float64{}, a.wdotpold...)
	doc.Fold = append([]float64{}, a.fold...)
	if a.restraints != nil {
		doc.RestraintLo = make([]float64, a.ncv)
		doc.RestraintHi = make([]float64, a.ncv)
		doc.Springs = make([]float64, a.ncv)
		for c, r := range a.restraints {
			doc.RestraintLo[c] = r.Lower
			doc.RestraintHi[c] = r.Upper
			doc.Springs[c] = r.Spring
		}
	}
	doc.Timestep = a.timestep
	doc.MinCount = a.minCount
	doc.UnitConv = a.unitconv
	doc.Ortho = a.orthogonalization
	doc.Policy = a.policy.String()
	doc.ReduceEvery = a.reduceEvery
	doc.PrintEvery = a.printEvery
	doc.BackupEvery = a.backupEvery
	doc.Filename = a.filename
	return doc
}

//RestoreABF rebuilds an ABF method from a stored document. The
//persisted parameters come from the document; the options only supply
//what cannot be stored, the walker handle and the log writer. The
//restored totals seed the local statistics of a lone or rank-0 walker,
//and only those, so a later reduction counts them exactly once.
func RestoreABF(doc *checkpoint.Document, options ...*Options) (*ABF, error) {
	if err := doc.Check(); err != nil {
		return nil, errDecorate(err, "RestoreABF")
	}
	if doc.Method != "abf" {
		return nil, SError{ErrBadRestore, []string{"RestoreABF: stored method is " + doc.Method}}
	}
	policy, err := ParseRestraintPolicy(doc.Policy)
	if err != nil {
		return nil, errDecorate(err, "RestoreABF")
	}
	o := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		o.walker = options[0].walker
		o.walkerLog = options[0].walkerLog
	}
	o.timestep = doc.Timestep
	o.minCount = doc.MinCount
	o.unitconv = doc.UnitConv
	o.ortho = doc.Ortho
	o.policy = policy
	o.reduceEvery = doc.ReduceEvery
	o.printEvery = doc.PrintEvery
	o.backupEvery = doc.BackupEvery
	o.filename = doc.Filename
	if doc.RestraintLo != nil {
		o.restraints = make([]Restraint, len(doc.RestraintLo))
		for c := range doc.RestraintLo {
			o.restraints[c] = Restraint{doc.RestraintLo[c], doc.RestraintHi[c], doc.Springs[c]}
		}
	}
	a, err := NewABF(doc.Points, doc.Lower, doc.Upper, doc.Periodic, o)
	if err != nil {
		return nil, errDecorate(err, "RestoreABF")
	}
	if err := a.world.SetRaw(doc.Counts, doc.Forces); err != nil {
		return nil, SError{ErrBadRestore, []string{"RestoreABF: " + err.Error()}}
	}
	if a.walker == nil || a.walker.Rank() == 0 {
		a.local.SetRaw(doc.Counts, doc.Forces)
	}
	if a.walker != nil && doc.Walkers != a.walker.Size() {
		log.Printf("goSAGES/ABF: restarting %d walkers from a %d-walker run", a.walker.Size(), doc.Walkers)
	}
	a.wdotpold = append([]float64{}, doc.Wdotpold...)
	a.fold = append([]float64{}, doc.Fold...)
	a.iteration = doc.Iteration
	return a, nil
}
