/*
 * driver.go, part of gosages.
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
	"log"

	"github.com/google/uuid"

	"github.com/hadi-ramezani/gosages/checkpoint"
)

//Phase is where a driver stands in its lifecycle.
type Phase int

const (
	Initializing Phase = iota
	Running
	Finalizing
)

func (p Phase) String() string {
	switch p {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Finalizing:
		return "finalizing"
	}
	return "unknown"
}

//Checkpointer is implemented by methods that can capture their full
//state in a document. The driver checkpoints such methods on its
//cadence and silently skips the ones that cannot.
type Checkpointer interface {
	Checkpoint() *checkpoint.Document
}

//Archive is anything that wants a copy of each checkpoint document as
//a run progresses. The SQLite archive in the archive package
//implements it.
type Archive interface {
	RecordRun(doc *checkpoint.Document) error
	RecordEpoch(doc *checkpoint.Document) error
}

// Driver walks a method through its lifecycle for one walker. The
// engine calls Start once, Step every integration step and Finish
// once; anything out of order gets a phase error back, never a panic.
// Besides the ordering, the driver owns the run identity and the
// checkpoint and archive cadence, so the methods do not have to.
type Driver struct {
	method Method
	phase  Phase
	runID  string
	steps  int

	checkpointPath  string
	checkpointEvery int
	archive         Archive
}

//NewDriver wraps a method for a full run. With no options the driver
//neither checkpoints nor archives, it only enforces the lifecycle.
func NewDriver(m Method, options ...*Options) (*Driver, error) {
	if m == nil {
		return nil, SError{ErrNilMethod, []string{"NewDriver"}}
	}
	d := new(Driver)
	d.method = m
	d.phase = Initializing
	d.runID = uuid.New().String()
	if len(options) > 0 && options[0] != nil {
		o := options[0]
		d.checkpointPath = o.checkpointPath
		d.checkpointEvery = o.checkpointEvery
		d.archive = o.archive
		if o.runID != "" {
			d.runID = o.runID
		}
	}
	return d, nil
}

//RunID returns the identity of this run, a fresh UUID unless the
//options carried one over from a previous run.
func (d *Driver) RunID() string {
	return d.runID
}

//Phase returns where the driver stands in its lifecycle.
func (d *Driver) Phase() Phase {
	return d.phase
}

//Method returns the wrapped method.
func (d *Driver) Method() Method {
	return d.method
}

//Start readies the method and moves the driver to the running phase.
//If an archive is attached, the run is registered with it here.
func (d *Driver) Start(s *Snapshot) error {
	if d.phase != Initializing {
		return SError{ErrBadPhase, []string{"Start: driver is " + d.phase.String()}}
	}
	if err := d.method.PreSimulation(s); err != nil {
		return errDecorate(err, "Driver.Start")
	}
	d.phase = Running
	if d.archive != nil {
		if doc := d.document(); doc != nil {
			if err := d.archive.RecordRun(doc); err != nil {
				return errDecorate(err, "Driver.Start")
			}
		}
	}
	return nil
}

//Step digests one integration step and returns the bias to apply
//during the next one. On the checkpoint cadence the method's state goes
//to disk and, if an archive is attached, into it as an epoch. A failed
//mid-run write only warns; the run is worth more than the backup.
func (d *Driver) Step(s *Snapshot) ([]float64, error) {
	if d.phase != Running {
		return nil, SError{ErrBadPhase, []string{"Step: driver is " + d.phase.String()}}
	}
	bias, err := d.method.PostIntegration(s)
	if err != nil {
		return nil, errDecorate(err, "Driver.Step")
	}
	d.steps++
	if d.checkpointEvery > 0 && d.steps%d.checkpointEvery == 0 {
		if err := d.checkpoint(); err != nil {
			log.Printf("goSAGES/Driver: checkpoint failed, continuing: %v", err)
		}
	}
	return bias, nil
}

//Finish runs the method's final synchronization, writes the last
//checkpoint and moves the driver to the finalizing phase. Unlike the
//mid-run writes, a failure here is an error; there is no later chance.
func (d *Driver) Finish(s *Snapshot) error {
	if d.phase != Running {
		return SError{ErrBadPhase, []string{"Finish: driver is " + d.phase.String()}}
	}
	if err := d.method.PostSimulation(s); err != nil {
		return errDecorate(err, "Driver.Finish")
	}
	d.phase = Finalizing
	if err := d.checkpoint(); err != nil {
		return errDecorate(err, "Driver.Finish")
	}
	return nil
}

func (d *Driver) document() *checkpoint.Document {
	c, ok := d.method.(Checkpointer)
	if !ok {
		return nil
	}
	doc := c.Checkpoint()
	doc.RunID = d.runID
	return doc
}

func (d *Driver) checkpoint() error {
	doc := d.document()
	if doc == nil {
		return nil
	}
	if d.checkpointPath != "" {
		if err := checkpoint.Save(d.checkpointPath, doc); err != nil {
			return err
		}
	}
	if d.archive != nil {
		if err := d.archive.RecordEpoch(doc); err != nil {
			return err
		}
	}
	return nil
}
