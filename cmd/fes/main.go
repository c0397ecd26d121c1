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
	"strings"

	"github.com/hadi-ramezani/gosages/archive"
	"github.com/hadi-ramezani/gosages/checkpoint"
	"github.com/hadi-ramezani/gosages/fes"
)

func CErr(err error, info string) {
	if err != nil {
		log.Fatal(err, " ", info)
	}
}

func main() {
	min := flag.Int("min", -1, "trust floor for the estimates; negative takes the one stored in the checkpoint")
	table := flag.String("o", "", "write the table to this file instead of standard output")
	plotname := flag.String("plot", "", "draw the free-energy profile into this PNG (one CV only)")
	names := flag.String("names", "", "comma-separated CV names for the table header")
	archpath := flag.String("archive", "", "also print the run's recorded epochs from this archive")
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		log.Fatal("use: fes [flags] checkpoint")
	}
	doc, err := checkpoint.Load(args[0])
	CErr(err, "reading "+args[0])
	if *min < 0 {
		*min = doc.MinCount
	}
	s, err := fes.FromDocument(doc)
	CErr(err, "rebuilding the statistics")
	var nameList []string
	if *names != "" {
		nameList = strings.Split(*names, ",")
	}
	out := os.Stdout
	if *table != "" {
		out, err = os.Create(*table)
		CErr(err, "main")
		defer out.Close()
	}
	if s.NCV() == 1 {
		name := ""
		if nameList != nil {
			name = nameList[0]
		}
		p, err := fes.NewProfile(s, *min, name)
		CErr(err, "integrating the profile")
		CErr(p.WriteTable(out), "writing the table")
		if *plotname != "" {
			CErr(p.Plot("ABF free energy", *plotname), "plotting")
		}
	} else {
		CErr(fes.WriteMeanForce(out, s, *min, nameList), "writing the table")
		if *plotname != "" {
			log.Println("can only plot one dimension, skipping the plot")
		}
	}
	if *archpath != "" {
		if doc.RunID == "" {
			log.Fatal("the checkpoint carries no run identity, nothing to look up")
		}
		book, err := archive.Open(*archpath)
		CErr(err, "opening the archive")
		defer book.Close()
		epochs, err := book.Epochs(doc.RunID)
		CErr(err, "reading the archive")
		fmt.Fprintf(os.Stderr, "#run %s, %d recorded epochs\n", doc.RunID, len(epochs))
		for _, e := range epochs {
			fmt.Fprintf(os.Stderr, "#%s iteration %d, %d bins visited, %d samples\n",
				e.Recorded, e.Iteration, e.Visited, e.Samples)
		}
	}
}
