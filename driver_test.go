/*
 * driver_test.go, part of gosages.
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
	"testing"

	"github.com/hadi-ramezani/gosages/checkpoint"
)

//notebook keeps what a driver sends to its archive.
type notebook struct {
	runs   int
	epochs []int
}

func (n *notebook) RecordRun(doc *checkpoint.Document) error {
	n.runs++
	return nil
}

func (n *notebook) RecordEpoch(doc *checkpoint.Document) error {
	n.epochs = append(n.epochs, doc.Iteration)
	return nil
}

//TestDriverLifecycle runs a full Start/Step/Finish cycle with
//checkpoints on a cadence and checks both the phase guards and what
//reaches the disk and the archive.
func TestDriverLifecycle(Te *testing.T) {
	a, err := NewABF([]int{10}, []float64{0}, []float64{10}, []bool{false})
	if err != nil {
		Te.Fatal(err)
	}
	book := new(notebook)
	o := DefaultOptions()
	o.CheckpointPath("test/driver.json")
	o.CheckpointEvery(2)
	o.ArchiveTo(book)
	d, err := NewDriver(a, o)
	if err != nil {
		Te.Fatal(err)
	}
	if d.RunID() == "" {
		Te.Error("a fresh driver should mint a run identity")
	}
	l := newLoop(1)
	if _, err := d.Step(l.s); err == nil {
		Te.Error("stepping an initializing driver should fail")
	}
	if err := d.Finish(l.s); err == nil {
		Te.Error("finishing an initializing driver should fail")
	}
	if err := d.Start(l.s); err != nil {
		Te.Fatal(err)
	}
	if err := d.Start(l.s); err == nil {
		Te.Error("a second Start should fail")
	}
	if book.runs != 1 {
		Te.Errorf("registered runs: got %d, want 1", book.runs)
	}
	x, f := []float64{2.5}, []float64{1.0}
	for i := 0; i < 4; i++ {
		copy(l.s.CVs, x)
		l.s.Wdotp[0] += f[0] + l.last[0]
		bias, err := d.Step(l.s)
		if err != nil {
			Te.Fatal(err)
		}
		copy(l.last, bias)
	}
	if len(book.epochs) != 2 {
		Te.Fatalf("archived epochs: got %d, want 2", len(book.epochs))
	}
	if book.epochs[0] != 2 || book.epochs[1] != 4 {
		Te.Errorf("archived epochs at iterations %v, want [2 4]", book.epochs)
	}
	if err := d.Finish(l.s); err != nil {
		Te.Fatal(err)
	}
	if d.Phase() != Finalizing {
		Te.Errorf("phase after Finish: got %v, want %v", d.Phase(), Finalizing)
	}
	if _, err := d.Step(l.s); err == nil {
		Te.Error("stepping a finalized driver should fail")
	}
	if err := d.Finish(l.s); err == nil {
		Te.Error("a second Finish should fail")
	}
	//the last checkpoint on disk carries the run identity and the
	//final iteration
	doc, err := checkpoint.Load("test/driver.json")
	if err != nil {
		Te.Fatal(err)
	}
	if doc.RunID != d.RunID() {
		Te.Errorf("stored run: got %q, want %q", doc.RunID, d.RunID())
	}
	if doc.Iteration != 4 {
		Te.Errorf("stored iteration: got %d, want 4", doc.Iteration)
	}
	fmt.Println("driver run", d.RunID(), "archived", len(book.epochs), "epochs")
}

//TestDriverIdentity checks that a resumed driver keeps the identity it
//is handed instead of minting a new one.
func TestDriverIdentity(Te *testing.T) {
	a, err := NewABF([]int{10}, []float64{0}, []float64{10}, []bool{false})
	if err != nil {
		Te.Fatal(err)
	}
	o := DefaultOptions()
	o.RunID("cafe-0001")
	d, err := NewDriver(a, o)
	if err != nil {
		Te.Fatal(err)
	}
	if d.RunID() != "cafe-0001" {
		Te.Errorf("run identity: got %q, want %q", d.RunID(), "cafe-0001")
	}
	if _, err := NewDriver(nil); err == nil {
		Te.Error("a driver without a method should be rejected")
	}
}
