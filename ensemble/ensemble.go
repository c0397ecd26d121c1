//Package ensemble synchronizes the bin statistics of several walkers
//sampling the same landscape. A hub goroutine gathers every walker's
//local sums once per epoch, adds them in rank order and hands the same
//totals back to everybody, so all walkers bias with the full ensemble
//history.
package ensemble

import (
	"gonum.org/v1/gonum/floats"
)

//packet is what a walker sends up to the hub on each epoch: its
//cumulative arenas, or the error that made it give up.
type packet struct {
	counts []int
	forces []float64
	err    error
}

//result is what the hub sends back down.
type result struct {
	counts []int
	forces []float64
	err    error
}

//com holds the channel pair one walker shares with the hub.
type com struct {
	up   chan packet
	down chan result
}

func newcom() *com {
	c := new(com)
	c.up = make(chan packet)
	c.down = make(chan result)
	return c
}

//World runs the reduction hub for a fixed set of walkers.
type World struct {
	n    int
	coms []*com
	quit chan struct{}
}

//NewWorld starts a hub for n walkers and returns it. Every rank in
//[0,n) must then be claimed with Walker, and every walker must join
//every reduction, or the whole ensemble stalls by design.
func NewWorld(n int) (*World, error) {
	if n < 1 {
		return nil, Error{message: BadWorldSize}
	}
	W := new(World)
	W.n = n
	W.coms = make([]*com, n)
	for i := range W.coms {
		W.coms[i] = newcom()
	}
	W.quit = make(chan struct{})
	go W.hub()
	return W, nil
}

//Size returns the number of walkers in the world.
func (W *World) Size() int {
	return W.n
}

//Walker returns the handle for the given rank.
func (W *World) Walker(rank int) (*Walker, error) {
	if rank < 0 || rank >= W.n {
		return nil, Error{message: BadRank, rank: rank}
	}
	return &Walker{rank: rank, c: W.coms[rank], quit: W.quit, n: W.n}, nil
}

//Close shuts the hub down. Only call it once no walker will reduce
//again; a walker caught mid-reduction gets a shutdown error back.
func (W *World) Close() {
	close(W.quit)
}

//hub is the control center. It does not select among walkers: each
//epoch it collects from all of them in rank order, so the additions
//happen in the same order every run and the barrier comes for free.
//Once something goes wrong the epoch and all that follow are poisoned,
//but the hub keeps answering so nobody blocks forever.
func (W *World) hub() {
	var poison error
	for {
		got := make([]packet, W.n)
		gathered := 0
	gather:
		for i, c := range W.coms {
			select {
			case p := <-c.up:
				got[i] = p
				gathered++
			case <-W.quit:
				break gather
			}
		}
		if gathered < W.n {
			//shutdown mid-epoch: release the walkers already collected
			for i := 0; i < W.n; i++ {
				if i < gathered {
					W.coms[i].down <- result{err: Error{message: ShutDown}}
				}
			}
			return
		}
		if poison == nil {
			poison = check(got)
		}
		if poison != nil {
			for _, c := range W.coms {
				c.down <- result{err: poison}
			}
			continue
		}
		counts := make([]int, len(got[0].counts))
		forces := make([]float64, len(got[0].forces))
		for _, p := range got {
			for j, v := range p.counts {
				counts[j] += v
			}
			floats.Add(forces, p.forces)
		}
		for _, c := range W.coms {
			r := result{counts: make([]int, len(counts)), forces: make([]float64, len(forces))}
			copy(r.counts, counts)
			copy(r.forces, forces)
			c.down <- r
		}
	}
}

//check looks for walker-side failures and shape disagreements in a
//gathered epoch. Failures win over shape problems, lowest rank first.
func check(got []packet) error {
	for i, p := range got {
		if p.err != nil {
			return Error{message: WalkerFailure, rank: i, cause: p.err}
		}
	}
	for i := 1; i < len(got); i++ {
		if len(got[i].counts) != len(got[0].counts) || len(got[i].forces) != len(got[0].forces) {
			return Error{message: ShapeMismatch, rank: i}
		}
	}
	return nil
}

//Walker is one rank's handle on the world.
type Walker struct {
	rank int
	n    int
	c    *com
	quit chan struct{}
}

//Rank returns the walker's rank in [0,Size).
func (wk *Walker) Rank() int {
	return wk.rank
}

//Size returns the number of walkers in the world.
func (wk *Walker) Size() int {
	return wk.n
}

//AllReduce hands the walker's cumulative arenas to the hub and blocks
//until every walker of the epoch has done the same, then returns the
//ensemble totals. The input slices are not modified and not kept. A
//walker with nothing new still calls AllReduce with its current
//arenas; skipping the call stalls the ensemble.
func (wk *Walker) AllReduce(counts []int, forces []float64) ([]int, []float64, error) {
	p := packet{counts: make([]int, len(counts)), forces: make([]float64, len(forces))}
	copy(p.counts, counts)
	copy(p.forces, forces)
	return wk.exchange(p)
}

//Abort joins the current epoch with a failure instead of data. The
//cause reaches every walker wrapped in the reduction error, and every
//later epoch fails the same way.
func (wk *Walker) Abort(cause error) error {
	_, _, err := wk.exchange(packet{err: cause})
	return err
}

func (wk *Walker) exchange(p packet) ([]int, []float64, error) {
	select {
	case wk.c.up <- p:
	case <-wk.quit:
		return nil, nil, Error{message: ShutDown, rank: wk.rank}
	}
	r := <-wk.c.down
	if r.err != nil {
		return nil, nil, errDecorate(r.err, "AllReduce")
	}
	return r.counts, r.forces, nil
}
