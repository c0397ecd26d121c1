// Package fes turns synchronized sampling statistics into free-energy
// estimates: mean-force tables for any dimensionality and integrated
// profiles, with plots, for one-dimensional runs.
package fes

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/hadi-ramezani/gosages/checkpoint"
	"github.com/hadi-ramezani/gosages/histo"
)

//FromDocument rebuilds the sampling statistics a checkpoint carries.
func FromDocument(doc *checkpoint.Document) (*histo.Stats, error) {
	if err := doc.Check(); err != nil {
		return nil, fmt.Errorf("goSAGES/fes: %w", err)
	}
	s, err := histo.New(doc.Points, doc.Lower, doc.Upper, doc.Periodic)
	if err != nil {
		return nil, fmt.Errorf("goSAGES/fes: %w", err)
	}
	if err := s.SetRaw(doc.Counts, doc.Forces); err != nil {
		return nil, fmt.Errorf("goSAGES/fes: %w", err)
	}
	return s, nil
}

//WriteMeanForce writes the mean-force table of the given statistics:
//one line per interior bin with the bin center, the hit count and the
//damped mean-force estimate on each CV. The names label the header
//columns; pass nil for plain positional labels.
func WriteMeanForce(w io.Writer, s *histo.Stats, minCount int, names []string) error {
	g := s.Grid()
	if names != nil && len(names) != s.NCV() {
		return fmt.Errorf("goSAGES/fes: %d names for %d CVs", len(names), s.NCV())
	}
	fmt.Fprint(w, "#")
	for c := 0; c < s.NCV(); c++ {
		name := fmt.Sprintf("cv%d", c)
		if names != nil {
			name = names[c]
		}
		fmt.Fprintf(w, "%s ", name)
	}
	fmt.Fprint(w, "count")
	for c := 0; c < s.NCV(); c++ {
		name := fmt.Sprintf("cv%d", c)
		if names != nil {
			name = names[c]
		}
		fmt.Fprintf(w, " force_%s", name)
	}
	fmt.Fprint(w, "\n")
	counts := s.Counts()
	est := make([]float64, s.NCV())
	var werr error
	g.EachInterior(func(idx []int, off int) {
		c, _ := g.Center(idx)
		for _, v := range c {
			fmt.Fprintf(w, "%.6g ", v)
		}
		fmt.Fprintf(w, "%d", counts[off])
		s.MeanForce(off, minCount, est)
		for _, v := range est {
			fmt.Fprintf(w, " %.6g", v)
		}
		if _, err := fmt.Fprint(w, "\n"); err != nil && werr == nil {
			werr = err
		}
	})
	if werr != nil {
		return fmt.Errorf("goSAGES/fes: %w", werr)
	}
	return nil
}

// Profile is a one-dimensional free-energy profile: the damped mean
// force per bin and its integral, zeroed at the lowest point. The
// integral runs over the bins in order, so a bin the walkers never
// visited still contributes its (zero) estimate; check Hits before
// trusting a region.
type Profile struct {
	name   string
	x      []float64
	force  []float64
	energy []float64
	hits   []int
}

//NewProfile integrates the mean force of one-dimensional statistics
//into a free-energy profile. Estimates below min samples are damped,
//exactly as the method biases them.
func NewProfile(s *histo.Stats, min int, name string) (*Profile, error) {
	if s.NCV() != 1 {
		return nil, fmt.Errorf("goSAGES/fes: can only integrate one dimension, got %d", s.NCV())
	}
	if name == "" {
		name = "cv0"
	}
	g := s.Grid()
	p := new(Profile)
	p.name = name
	n := g.NBins()
	p.x = make([]float64, 0, n)
	p.force = make([]float64, 0, n)
	p.hits = make([]int, 0, n)
	counts := s.Counts()
	est := make([]float64, 1)
	g.EachInterior(func(idx []int, off int) {
		c, _ := g.Center(idx)
		s.MeanForce(off, min, est)
		p.x = append(p.x, c[0])
		p.force = append(p.force, est[0])
		p.hits = append(p.hits, counts[off])
	})
	//the free energy is minus the integral of the mean force,
	//trapezoid by trapezoid, then shifted so the lowest point is zero
	p.energy = make([]float64, len(p.x))
	for i := 1; i < len(p.x); i++ {
		p.energy[i] = p.energy[i-1] - 0.5*(p.force[i]+p.force[i-1])*(p.x[i]-p.x[i-1])
	}
	low := p.energy[0]
	for _, v := range p.energy {
		if v < low {
			low = v
		}
	}
	for i := range p.energy {
		p.energy[i] -= low
	}
	return p, nil
}

//Len returns the number of bins in the profile.
func (p *Profile) Len() int {
	return len(p.x)
}

//Centers returns a copy of the bin centers.
func (p *Profile) Centers() []float64 {
	return append([]float64{}, p.x...)
}

//MeanForce returns a copy of the damped mean force per bin.
func (p *Profile) MeanForce() []float64 {
	return append([]float64{}, p.force...)
}

//Energy returns a copy of the free energy per bin.
func (p *Profile) Energy() []float64 {
	return append([]float64{}, p.energy...)
}

//Hits returns a copy of the sample count per bin.
func (p *Profile) Hits() []int {
	return append([]int{}, p.hits...)
}

//WriteTable writes the profile as a text table, one line per bin.
func (p *Profile) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "#%s count mean_force free_energy\n", p.name); err != nil {
		return fmt.Errorf("goSAGES/fes: %w", err)
	}
	for i := range p.x {
		_, err := fmt.Fprintf(w, "%.6g %d %.6g %.6g\n", p.x[i], p.hits[i], p.force[i], p.energy[i])
		if err != nil {
			return fmt.Errorf("goSAGES/fes: %w", err)
		}
	}
	return nil
}

//Plot draws the free-energy curve into a PNG file.
func (p *Profile) Plot(title, filename string) error {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = p.name
	pl.Y.Label.Text = "free energy"
	pl.Add(plotter.NewGrid())
	pts := make(plotter.XYs, len(p.x))
	for i := range p.x {
		pts[i].X = p.x[i]
		pts[i].Y = p.energy[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("goSAGES/fes: %w", err)
	}
	pl.Add(line)
	pl.Legend.Add("A("+p.name+")", line)
	if err := pl.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("goSAGES/fes: %w", err)
	}
	return nil
}
