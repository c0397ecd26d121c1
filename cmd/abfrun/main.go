/*
 * main.go, part of gosages.
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

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	sages "github.com/hadi-ramezani/gosages"
	"github.com/hadi-ramezani/gosages/archive"
	"github.com/hadi-ramezani/gosages/checkpoint"
	"github.com/hadi-ramezani/gosages/config"
	"github.com/hadi-ramezani/gosages/ensemble"
	"github.com/hadi-ramezani/gosages/fes"
)

func CErr(err error, info string) {
	if err != nil {
		log.Fatal(err, " ", info)
	}
}

//one walker's whole life, from Start to Finish. Errors go back through
//errs; a failing walker poisons the ensemble first, so the others do
//not wait for it forever.
func walk(d *sages.Driver, t *toy, wk *ensemble.Walker, steps int, errs chan<- error) {
	fail := func(err error) {
		if wk != nil {
			wk.Abort(err)
		}
		errs <- err
	}
	if err := d.Start(t.s); err != nil {
		fail(err)
		return
	}
	var bias []float64
	var err error
	for i := 0; i < steps; i++ {
		t.advance(bias)
		bias, err = d.Step(t.s)
		if err != nil {
			fail(err)
			return
		}
	}
	errs <- d.Finish(t.s)
}

func main() {
	steps := flag.Int("steps", 0, "steps per walker; 0 takes the value from the configuration")
	walkers := flag.Int("walkers", 0, "number of walkers; 0 takes the value from the configuration")
	restart := flag.String("restart", "", "checkpoint to resume from")
	seed := flag.Int64("seed", 1, "seed for the model landscape noise")
	plotname := flag.String("plot", "", "also draw the free-energy profile into this PNG (one CV only)")
	flag.Parse()
	cfgname := "abf.toml"
	if args := flag.Args(); len(args) > 0 {
		cfgname = args[0]
	}
	cfg, err := config.Load(cfgname)
	CErr(err, "reading "+cfgname)
	if *steps <= 0 {
		*steps = cfg.Run.Steps
	}
	if *steps <= 0 {
		log.Fatal("nothing to do: no steps on the command line or in ", cfgname)
	}
	if *walkers <= 0 {
		*walkers = cfg.Run.Walkers
	}

	var world *ensemble.World
	if *walkers > 1 {
		world, err = ensemble.NewWorld(*walkers)
		CErr(err, "main")
		defer world.Close()
	}
	var book *archive.DB
	if cfg.Run.Archive != "" {
		book, err = archive.Open(cfg.Run.Archive)
		CErr(err, "opening the archive")
		defer book.Close()
	}
	var restored *checkpoint.Document
	if *restart != "" {
		restored, err = checkpoint.Load(*restart)
		CErr(err, "reading "+*restart)
	}

	drivers := make([]*sages.Driver, *walkers)
	methods := make([]*sages.ABF, *walkers)
	handles := make([]*ensemble.Walker, *walkers)
	toys := make([]*toy, *walkers)
	points, lower, upper, periodic := cfg.Shape()
	for rank := 0; rank < *walkers; rank++ {
		if world != nil {
			handles[rank], err = world.Walker(rank)
			CErr(err, "main")
		}
		var wlog *os.File
		if cfg.Method.PrintEvery > 0 {
			wlog, err = os.Create(fmt.Sprintf("walker_%d.log", rank))
			CErr(err, "main")
			defer wlog.Close()
		}
		o := cfg.Options(handles[rank], wlog)
		if rank == 0 && book != nil {
			o.ArchiveTo(book)
		}
		if restored != nil {
			o.RunID(restored.RunID)
			methods[rank], err = sages.RestoreABF(restored, o)
		} else {
			methods[rank], err = sages.NewABF(points, lower, upper, periodic, o)
		}
		CErr(err, "building walker")
		drivers[rank], err = sages.NewDriver(methods[rank], o)
		CErr(err, "building walker")
		toys[rank] = newToy(cfg, *seed+int64(rank))
	}

	errs := make(chan error, *walkers)
	for rank := 0; rank < *walkers; rank++ {
		go walk(drivers[rank], toys[rank], handles[rank], *steps, errs)
	}
	failed := false
	for i := 0; i < *walkers; i++ {
		if err := <-errs; err != nil {
			log.Println(err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
	fmt.Println("run", drivers[0].RunID(), "finished after", methods[0].Iteration(), "steps per walker")

	if *plotname != "" && methods[0].NCV() == 1 {
		p, err := fes.NewProfile(methods[0].World(), methods[0].MinCount(), cfg.Names()[0])
		CErr(err, "profile")
		CErr(p.Plot("ABF free energy", *plotname), "profile")
		fmt.Println("profile written to", *plotname)
	}
}
