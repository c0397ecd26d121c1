//Package grid provides a generic N-dimensional container over a
//rectangular region of collective-variable space. Each dimension is
//split into equal-width bins which are half-open on the right. Periodic
//dimensions fold out-of-range values back into the grid; non-periodic
//dimensions map them to one underflow and one overflow slot so no
//sample is ever silently lost.
package grid

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

//Grid discretizes a region of CV space into bins of element type T.
//Storage is a single flat arena in row-major order, with the last
//dimension contiguous. Non-periodic dimensions carry two extra slots,
//addressed with index -1 (underflow) and NPoints (overflow).
type Grid[T any] struct {
	points   []int
	lower    []float64
	upper    []float64
	periodic []bool
	spacing  []float64
	stride   []int
	pad      []int //1 on non-periodic dimensions, 0 on periodic ones
	data     []T
}

//New builds a grid with the given number of points per dimension over
//[lower,upper), marking as periodic the dimensions for which periodic
//is true. All slices must have the same length. It is the only way to
//obtain a usable grid, so an existing grid always has a coherent shape.
func New[T any](points []int, lower, upper []float64, periodic []bool) (*Grid[T], error) {
	g := new(Grid[T])
	//copies, so nobody changes the shape from outside after validation
	g.points = append([]int{}, points...)
	g.lower = append([]float64{}, lower...)
	g.upper = append([]float64{}, upper...)
	g.periodic = append([]bool{}, periodic...)
	if err := g.setup(); err != nil {
		return nil, err
	}
	return g, nil
}

//NewLike returns a grid of element type U with the same shape as g.
func NewLike[U, T any](g *Grid[T]) *Grid[U] {
	r := new(Grid[U])
	r.points = append([]int{}, g.points...)
	r.lower = append([]float64{}, g.lower...)
	r.upper = append([]float64{}, g.upper...)
	r.periodic = append([]bool{}, g.periodic...)
	r.setup() //g went through validation already
	return r
}

//setup validates the shape vectors and computes the derived fields,
//including the backing arena.
func (g *Grid[T]) setup() error {
	n := len(g.points)
	if n == 0 {
		return Error{message: BadDimension, config: true}
	}
	if len(g.lower) != n || len(g.upper) != n || len(g.periodic) != n {
		return Error{message: MismatchedShape, config: true}
	}
	g.spacing = make([]float64, n)
	g.pad = make([]int, n)
	for d := 0; d < n; d++ {
		if g.points[d] < 1 {
			return Error{message: BadPoints, config: true}
		}
		if g.lower[d] >= g.upper[d] {
			return Error{message: BadBounds, config: true}
		}
		g.spacing[d] = (g.upper[d] - g.lower[d]) / float64(g.points[d])
		if !g.periodic[d] {
			g.pad[d] = 1
		}
	}
	g.stride = make([]int, n)
	size := 1
	for d := n - 1; d >= 0; d-- {
		g.stride[d] = size
		size *= g.points[d] + 2*g.pad[d]
	}
	g.data = make([]T, size)
	return nil
}

//Dims returns the number of dimensions of the grid.
func (g *Grid[T]) Dims() int {
	return len(g.points)
}

//Len returns the length of the backing arena, sentinel slots included.
func (g *Grid[T]) Len() int {
	return len(g.data)
}

//NBins returns the number of interior bins, sentinel slots excluded.
func (g *Grid[T]) NBins() int {
	n := 1
	for _, v := range g.points {
		n *= v
	}
	return n
}

//NPoints returns a copy of the per-dimension bin counts.
func (g *Grid[T]) NPoints(dest ...[]int) []int {
	if len(dest) > 0 && len(dest[0]) == len(g.points) {
		copy(dest[0], g.points)
		return dest[0]
	}
	return append([]int{}, g.points...)
}

//Lower returns a copy of the per-dimension lower bounds.
func (g *Grid[T]) Lower() []float64 {
	return append([]float64{}, g.lower...)
}

//Upper returns a copy of the per-dimension upper bounds.
func (g *Grid[T]) Upper() []float64 {
	return append([]float64{}, g.upper...)
}

//Periodic returns a copy of the per-dimension periodicity flags.
func (g *Grid[T]) Periodic() []bool {
	return append([]bool{}, g.periodic...)
}

//Spacing returns a copy of the per-dimension bin widths.
func (g *Grid[T]) Spacing() []float64 {
	return append([]float64{}, g.spacing...)
}

//View returns the backing arena itself, not a copy. The layout is
//row-major with the last dimension contiguous, sentinel slots included
//for non-periodic dimensions. Use Offset to address it.
func (g *Grid[T]) View() []T {
	return g.data
}

//Indices maps a point in CV space to its per-dimension bin indices.
//On periodic dimensions the value is folded back into range first. On
//non-periodic dimensions values below the grid give -1 and values at or
//above the upper bound give NPoints, so the returned indices are always
//addressable. Values that are NaN or infinite cannot be binned and
//return an error.
func (g *Grid[T]) Indices(x []float64) ([]int, error) {
	if len(x) != len(g.points) {
		return nil, Error{message: BadVector}
	}
	idx := make([]int, len(x))
	for d, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, Error{message: Unmappable}
		}
		n := int(math.Floor((v - g.lower[d]) / g.spacing[d]))
		if g.periodic[d] {
			n %= g.points[d]
			if n < 0 {
				n += g.points[d]
			}
		} else if n < -1 {
			n = -1
		} else if n > g.points[d] {
			n = g.points[d]
		}
		idx[d] = n
	}
	return idx, nil
}

//Offset flattens per-dimension bin indices into an arena offset.
//Sentinel indices (-1 and NPoints on non-periodic dimensions) are
//valid. Anything else out of range is an error.
func (g *Grid[T]) Offset(idx []int) (int, error) {
	if len(idx) != len(g.points) {
		return 0, Error{message: BadVector}
	}
	off := 0
	for d, i := range idx {
		if i < -g.pad[d] || i >= g.points[d]+g.pad[d] {
			return 0, Error{message: OutOfRange}
		}
		off += (i + g.pad[d]) * g.stride[d]
	}
	return off, nil
}

//At returns the element stored at the given bin indices.
func (g *Grid[T]) At(idx []int) (T, error) {
	off, err := g.Offset(idx)
	if err != nil {
		var zero T
		return zero, errDecorate(err, "At")
	}
	return g.data[off], nil
}

//Set stores v at the given bin indices.
func (g *Grid[T]) Set(idx []int, v T) error {
	off, err := g.Offset(idx)
	if err != nil {
		return errDecorate(err, "Set")
	}
	g.data[off] = v
	return nil
}

//Interior reports whether idx addresses an interior bin, i.e. no
//sentinel slot on any dimension.
func (g *Grid[T]) Interior(idx []int) bool {
	if len(idx) != len(g.points) {
		return false
	}
	for d, i := range idx {
		if i < 0 || i >= g.points[d] {
			return false
		}
	}
	return true
}

//Center returns the coordinates of the center of an interior bin.
//Sentinel slots have no center.
func (g *Grid[T]) Center(idx []int) ([]float64, error) {
	if !g.Interior(idx) {
		return nil, Error{message: OutOfRange, deco: []string{"Center"}}
	}
	c := make([]float64, len(idx))
	for d, i := range idx {
		c[d] = g.lower[d] + (float64(i)+0.5)*g.spacing[d]
	}
	return c, nil
}

//EachInterior calls f for every interior bin, last dimension fastest,
//with the bin indices and the matching arena offset. The idx slice is
//reused between calls, so copy it if you keep it.
func (g *Grid[T]) EachInterior(f func(idx []int, off int)) {
	idx := make([]int, len(g.points))
	for {
		off, _ := g.Offset(idx) //can't fail, the odometer stays in range
		f(idx, off)
		d := len(idx) - 1
		for d >= 0 {
			idx[d]++
			if idx[d] < g.points[d] {
				break
			}
			idx[d] = 0
			d--
		}
		if d < 0 {
			return
		}
	}
}

//SameShape reports whether two grids discretize the same region the
//same way, whatever their element types.
func SameShape[T, U any](a *Grid[T], b *Grid[U]) bool {
	if len(a.points) != len(b.points) {
		return false
	}
	for d, v := range a.points {
		if v != b.points[d] || a.periodic[d] != b.periodic[d] {
			return false
		}
	}
	return floats.Equal(a.lower, b.lower) && floats.Equal(a.upper, b.upper)
}

func (g *Grid[T]) String() string {
	return fmt.Sprintf("points:%v lower:%v upper:%v periodic:%v", g.points, g.lower, g.upper, g.periodic)
}

func (g *Grid[T]) MarshalJSON() ([]byte, error) {
	j, err := json.Marshal(struct {
		Points   []int     `json:"points"`
		Lower    []float64 `json:"lower"`
		Upper    []float64 `json:"upper"`
		Periodic []bool    `json:"periodic"`
		Data     []T       `json:"data"`
	}{
		Points:   g.points,
		Lower:    g.lower,
		Upper:    g.upper,
		Periodic: g.periodic,
		Data:     g.data,
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (g *Grid[T]) UnmarshalJSON(b []byte) error {
	var a struct {
		Points   []int     `json:"points"`
		Lower    []float64 `json:"lower"`
		Upper    []float64 `json:"upper"`
		Periodic []bool    `json:"periodic"`
		Data     []T       `json:"data"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	g.points = a.Points
	g.lower = a.Lower
	g.upper = a.Upper
	g.periodic = a.Periodic
	if err := g.setup(); err != nil {
		return errDecorate(err, "UnmarshalJSON")
	}
	if len(a.Data) != len(g.data) {
		return Error{message: BadStoredData, deco: []string{"UnmarshalJSON"}}
	}
	g.data = a.Data
	return nil
}
