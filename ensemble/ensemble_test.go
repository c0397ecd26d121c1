package ensemble

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAllReduce(Te *testing.T) {
	fmt.Println("Ensemble reduction test!")
	W, err := NewWorld(3)
	if err != nil {
		Te.Fatal(err)
	}
	defer W.Close()
	locals := [][]float64{
		{1, 0, 0.5},
		{0, 2, -0.5},
		{0, 0, 1},
	}
	hits := [][]int{
		{1, 0, 1},
		{0, 2, 1},
		{0, 0, 1},
	}
	type got struct {
		counts []int
		forces []float64
		err    error
	}
	results := make(chan got, 3)
	for i := 0; i < 3; i++ {
		wk, err := W.Walker(i)
		if err != nil {
			Te.Fatal(err)
		}
		go func(wk *Walker, i int) {
			c, f, err := wk.AllReduce(hits[i], locals[i])
			results <- got{c, f, err}
		}(wk, i)
	}
	wantC := []int{1, 2, 3}
	wantF := []float64{1, 2, 1}
	for i := 0; i < 3; i++ {
		r := <-results
		if r.err != nil {
			Te.Fatal(r.err)
		}
		for j := range wantC {
			if r.counts[j] != wantC[j] {
				Te.Errorf("counts: got %v, want %v", r.counts, wantC)
				break
			}
		}
		for j := range wantF {
			if r.forces[j] != wantF[j] {
				Te.Errorf("forces: got %v, want %v", r.forces, wantF)
				break
			}
		}
	}
}

//A walker that sampled nothing still joins the epoch, and the totals
//are just everybody else's.
func TestAllReduceIdleWalker(Te *testing.T) {
	W, _ := NewWorld(2)
	defer W.Close()
	w0, _ := W.Walker(0)
	w1, _ := W.Walker(1)
	done := make(chan []float64, 1)
	go func() {
		_, f, err := w0.AllReduce([]int{0, 0}, []float64{0, 0})
		if err != nil {
			Te.Error(err)
		}
		done <- f
	}()
	_, f, err := w1.AllReduce([]int{3, 1}, []float64{1.5, -1})
	if err != nil {
		Te.Fatal(err)
	}
	f0 := <-done
	if f[0] != 1.5 || f[1] != -1 || f0[0] != f[0] || f0[1] != f[1] {
		Te.Errorf("idle walker changed the totals: %v vs %v", f0, f)
	}
}

func TestAllReduceSingle(Te *testing.T) {
	W, _ := NewWorld(1)
	defer W.Close()
	wk, _ := W.Walker(0)
	c, f, err := wk.AllReduce([]int{4}, []float64{2.5})
	if err != nil {
		Te.Fatal(err)
	}
	if c[0] != 4 || f[0] != 2.5 {
		Te.Errorf("a single-walker reduction should be the identity, got %v %v", c, f)
	}
}

func TestAbortPoisonsEpochs(Te *testing.T) {
	W, _ := NewWorld(2)
	defer W.Close()
	w0, _ := W.Walker(0)
	w1, _ := W.Walker(1)
	boom := errors.New("lost the simulation engine")
	errs := make(chan error, 1)
	go func() {
		errs <- w0.Abort(boom)
	}()
	_, _, err := w1.AllReduce([]int{1}, []float64{1})
	if err == nil {
		Te.Fatal("an aborted epoch should fail for everybody")
	}
	if !strings.Contains(err.Error(), "lost the simulation engine") {
		Te.Errorf("the cause should travel with the error, got %v", err)
	}
	e2, ok := err.(Error)
	if !ok {
		Te.Fatalf("expected an ensemble Error, got %T", err)
	}
	if e2.Rank() != 0 || e2.Cause() != boom {
		Te.Errorf("blame went to rank %d with cause %v", e2.Rank(), e2.Cause())
	}
	if err := <-errs; err == nil {
		Te.Error("the aborting walker should get the failure too")
	}
	//later epochs stay poisoned
	go func() {
		_, _, err := w0.AllReduce([]int{1}, []float64{1})
		errs <- err
	}()
	_, _, err = w1.AllReduce([]int{1}, []float64{1})
	if err == nil || <-errs == nil {
		Te.Error("epochs after an abort should keep failing")
	}
}

func TestShapeMismatch(Te *testing.T) {
	W, _ := NewWorld(2)
	defer W.Close()
	w0, _ := W.Walker(0)
	w1, _ := W.Walker(1)
	errs := make(chan error, 1)
	go func() {
		_, _, err := w0.AllReduce([]int{1, 2, 3}, []float64{1, 2, 3})
		errs <- err
	}()
	_, _, err := w1.AllReduce([]int{1}, []float64{1})
	if err == nil || <-errs == nil {
		Te.Error("disagreeing shapes should fail the reduction for everybody")
	}
}

func TestWorldValidation(Te *testing.T) {
	if _, err := NewWorld(0); err == nil {
		Te.Error("a world of 0 walkers should be refused")
	}
	W, _ := NewWorld(2)
	defer W.Close()
	if _, err := W.Walker(2); err == nil {
		Te.Error("rank 2 does not exist in a world of 2")
	}
	if _, err := W.Walker(-1); err == nil {
		Te.Error("negative ranks do not exist")
	}
}

func TestShutdownReleasesWalkers(Te *testing.T) {
	W, _ := NewWorld(2)
	w0, _ := W.Walker(0)
	errs := make(chan error, 1)
	go func() {
		_, _, err := w0.AllReduce([]int{1}, []float64{1})
		errs <- err
	}()
	time.Sleep(10 * time.Millisecond) //let the walker block on the barrier
	W.Close()
	select {
	case err := <-errs:
		if err == nil {
			Te.Error("a walker released by a shutdown should get an error")
		}
	case <-time.After(2 * time.Second):
		Te.Fatal("the shutdown left a walker blocked")
	}
	if _, _, err := w0.AllReduce([]int{1}, []float64{1}); err == nil {
		Te.Error("reducing on a closed world should fail")
	}
}
