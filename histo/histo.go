//Package histo accumulates per-bin sampling statistics: how many times
//each bin was visited and the running sum of the generalized force
//recorded there, one component per collective variable.
package histo

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/hadi-ramezani/gosages/grid"
)

//Stats holds the visit counts and force sums over a grid. The force
//sums live in one flat arena of length grid.Len()*NCV, indexed as
//offset*NCV+component, so merging across walkers is a plain
//element-wise sum.
type Stats struct {
	ncv   int
	hits  *grid.Grid[int]
	force []float64
}

//New builds an empty statistics container over the given grid shape.
//The number of force components per bin equals the number of grid
//dimensions, one per collective variable.
func New(points []int, lower, upper []float64, periodic []bool) (*Stats, error) {
	g, err := grid.New[int](points, lower, upper, periodic)
	if err != nil {
		return nil, err
	}
	s := new(Stats)
	s.ncv = g.Dims()
	s.hits = g
	s.force = make([]float64, g.Len()*s.ncv)
	return s, nil
}

//NewLike returns an empty container with the same shape as s.
func NewLike(s *Stats) *Stats {
	r := new(Stats)
	r.ncv = s.ncv
	r.hits = grid.NewLike[int](s.hits)
	r.force = make([]float64, len(s.force))
	return r
}

//NCV returns the number of force components stored per bin.
func (s *Stats) NCV() int {
	return s.ncv
}

//Grid returns the visit-count grid. It is a view, not a copy.
func (s *Stats) Grid() *grid.Grid[int] {
	return s.hits
}

//Counts returns the visit-count arena itself. Sentinel slots included.
func (s *Stats) Counts() []int {
	return s.hits.View()
}

//Forces returns the force-sum arena itself. Sentinel slots included.
func (s *Stats) Forces() []float64 {
	return s.force
}

//Record adds one sample to the bin addressed by idx. Sentinel slots
//take samples like any other bin, so out-of-range excursions still
//leave a trace.
func (s *Stats) Record(idx []int, sample []float64) error {
	if len(sample) != s.ncv {
		return fmt.Errorf("goSAGES/histo.Record: sample has %d components, want %d", len(sample), s.ncv)
	}
	off, err := s.hits.Offset(idx)
	if err != nil {
		return err
	}
	s.hits.View()[off]++
	floats.Add(s.force[off*s.ncv:(off+1)*s.ncv], sample)
	return nil
}

//Hits returns the visit count of the bin addressed by idx.
func (s *Stats) Hits(idx []int) (int, error) {
	return s.hits.At(idx)
}

//Force copies out the force sum of the bin addressed by idx.
func (s *Stats) Force(idx []int, dest ...[]float64) ([]float64, error) {
	off, err := s.hits.Offset(idx)
	if err != nil {
		return nil, err
	}
	d := getCopySlice(s.ncv, dest...)
	return floats.ScaleTo(d, 1, s.force[off*s.ncv:(off+1)*s.ncv]), nil
}

//MeanForce estimates the mean force of the bin at the given arena
//offset as sum/max(count,min,1). The min floor damps the estimate in
//poorly sampled bins instead of letting early noise through.
func (s *Stats) MeanForce(off, min int, dest ...[]float64) []float64 {
	n := s.hits.View()[off]
	if n < min {
		n = min
	}
	if n < 1 {
		n = 1
	}
	d := getCopySlice(s.ncv, dest...)
	return floats.ScaleTo(d, 1/float64(n), s.force[off*s.ncv:(off+1)*s.ncv])
}

//Merge adds the contents of o into s element-wise.
func (s *Stats) Merge(o *Stats) error {
	if err := s.check(o, "Merge"); err != nil {
		return err
	}
	h := s.hits.View()
	for i, v := range o.hits.View() {
		h[i] += v
	}
	floats.Add(s.force, o.force)
	return nil
}

//CopyFrom replaces the contents of s with those of o.
func (s *Stats) CopyFrom(o *Stats) error {
	if err := s.check(o, "CopyFrom"); err != nil {
		return err
	}
	copy(s.hits.View(), o.hits.View())
	copy(s.force, o.force)
	return nil
}

//SetRaw overwrites the arenas with the given slices, which must match
//the container's sizes. Used when rebuilding from a stored document.
func (s *Stats) SetRaw(counts []int, force []float64) error {
	if len(counts) != s.hits.Len() || len(force) != len(s.force) {
		return fmt.Errorf("goSAGES/histo.SetRaw: arena sizes %d/%d, want %d/%d",
			len(counts), len(force), s.hits.Len(), len(s.force))
	}
	copy(s.hits.View(), counts)
	copy(s.force, force)
	return nil
}

//Visited returns how many interior bins have at least one sample.
func (s *Stats) Visited() int {
	n := 0
	h := s.hits.View()
	s.hits.EachInterior(func(idx []int, off int) {
		if h[off] > 0 {
			n++
		}
	})
	return n
}

func (s *Stats) check(o *Stats, caller string) error {
	if o == nil || s.ncv != o.ncv || !grid.SameShape(s.hits, o.hits) {
		return fmt.Errorf("goSAGES/histo.%s: containers have different shapes", caller)
	}
	return nil
}

func (s *Stats) String() string {
	return fmt.Sprintf("ncv:%d visited:%d %v", s.ncv, s.Visited(), s.hits)
}

func (s *Stats) MarshalJSON() ([]byte, error) {
	j, err := json.Marshal(struct {
		NCV   int             `json:"ncv"`
		Hits  *grid.Grid[int] `json:"hits"`
		Force []float64       `json:"force"`
	}{
		NCV:   s.ncv,
		Hits:  s.hits,
		Force: s.force,
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (s *Stats) UnmarshalJSON(b []byte) error {
	var a struct {
		NCV   int             `json:"ncv"`
		Hits  *grid.Grid[int] `json:"hits"`
		Force []float64       `json:"force"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	if a.Hits == nil || a.NCV != a.Hits.Dims() || len(a.Force) != a.Hits.Len()*a.NCV {
		return fmt.Errorf("goSAGES/histo.UnmarshalJSON: stored arenas do not match the stored shape")
	}
	s.ncv = a.NCV
	s.hits = a.Hits
	s.force = a.Force
	return nil
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	var d []float64
	if len(dest) > 0 && len(dest[0]) >= N {
		d = dest[0]
		if len(dest[0]) > N {
			d = dest[0][:N]
		}
	} else {
		d = make([]float64, N)
	}
	return d
}
