// Package config reads and validates the TOML run configurations of
// the sampling methods. A configuration carries one [[cv]] block per
// collective variable, a [method] block with the estimator parameters
// and a [run] block with everything that belongs to the run rather
// than the method. Validation is strict: anything that would silently
// wreck the statistics of a long run, like walls sitting inside the
// sampled range, is rejected at load time.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml"

	sages "github.com/hadi-ramezani/gosages"
	"github.com/hadi-ramezani/gosages/ensemble"
)

// CV is one collective variable: its sampled range, the number of
// bins, and optionally a pair of harmonic walls. A zero spring means
// no walls.
type CV struct {
	Name           string  `toml:"name"`
	Lower          float64 `toml:"lower"`
	Upper          float64 `toml:"upper"`
	Bins           int     `toml:"bins"`
	Periodic       bool    `toml:"periodic"`
	RestraintLower float64 `toml:"restraint_lower"`
	RestraintUpper float64 `toml:"restraint_upper"`
	Spring         float64 `toml:"spring"`
}

// Method is the [method] block.
type Method struct {
	Timestep    float64 `toml:"timestep"`
	UnitConv    float64 `toml:"unit_conversion"`
	MinCount    int     `toml:"min_count"`
	Ortho       bool    `toml:"orthogonalization"`
	Policy      string  `toml:"restraint_policy"`
	ReduceEvery int     `toml:"reduction_interval"`
	PrintEvery  int     `toml:"print_interval"`
	BackupEvery int     `toml:"backup_interval"`
}

// Run is the [run] block.
type Run struct {
	Walkers            int    `toml:"walkers"`
	Steps              int    `toml:"steps"`
	Output             string `toml:"output"`
	Checkpoint         string `toml:"checkpoint"`
	CheckpointInterval int    `toml:"checkpoint_interval"`
	Archive            string `toml:"archive"`
}

// Config is a whole run configuration.
type Config struct {
	CVs    []CV   `toml:"cv"`
	Method Method `toml:"method"`
	Run    Run    `toml:"run"`
}

//Load reads and validates the configuration in the given TOML file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("goSAGES/config: %w", err)
	}
	defer f.Close()
	return Read(f)
}

//Read reads and validates a TOML configuration.
func Read(r io.Reader) (*Config, error) {
	c := new(Config)
	if err := toml.NewDecoder(r).Decode(c); err != nil {
		return nil, fmt.Errorf("goSAGES/config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

//Validate checks the configuration and fills in the defaults for what
//was left out. Load and Read run it already; it only needs calling on
//configurations built in code.
func (c *Config) Validate() error {
	if len(c.CVs) == 0 {
		return fmt.Errorf("goSAGES/config: no [[cv]] blocks")
	}
	for i := range c.CVs {
		cv := &c.CVs[i]
		if cv.Name == "" {
			cv.Name = fmt.Sprintf("cv%d", i)
		}
		if cv.Bins < 1 {
			return fmt.Errorf("goSAGES/config: %s needs at least one bin", cv.Name)
		}
		if cv.Lower >= cv.Upper {
			return fmt.Errorf("goSAGES/config: %s needs lower < upper", cv.Name)
		}
		if cv.Spring < 0 {
			return fmt.Errorf("goSAGES/config: %s has a negative spring", cv.Name)
		}
		if cv.Spring > 0 {
			if cv.RestraintLower > cv.RestraintUpper {
				return fmt.Errorf("goSAGES/config: the walls on %s are crossed", cv.Name)
			}
			//walls inside the sampled range hide the excursions the
			//sentinel slots are there to count
			spacing := (cv.Upper - cv.Lower) / float64(cv.Bins)
			if cv.RestraintLower > cv.Lower-spacing || cv.RestraintUpper < cv.Upper+spacing {
				return fmt.Errorf("goSAGES/config: the walls on %s must sit at least one bin outside its sampled range", cv.Name)
			}
		}
	}
	m := &c.Method
	if m.Timestep <= 0 {
		return fmt.Errorf("goSAGES/config: the timestep must be positive")
	}
	if m.MinCount < 0 {
		return fmt.Errorf("goSAGES/config: min_count cannot be negative")
	}
	if m.UnitConv == 0 {
		m.UnitConv = 1.0
	}
	if m.ReduceEvery == 0 {
		m.ReduceEvery = 1
	}
	if m.ReduceEvery < 0 || m.PrintEvery < 0 {
		return fmt.Errorf("goSAGES/config: intervals cannot be negative")
	}
	if m.BackupEvery == 0 {
		m.BackupEvery = -1
	}
	if _, err := sages.ParseRestraintPolicy(m.Policy); err != nil {
		return fmt.Errorf("goSAGES/config: %w", err)
	}
	r := &c.Run
	if r.Walkers == 0 {
		r.Walkers = 1
	}
	if r.Walkers < 0 || r.Steps < 0 || r.CheckpointInterval < 0 {
		return fmt.Errorf("goSAGES/config: the [run] counts cannot be negative")
	}
	return nil
}

//Shape returns the grid shape the [[cv]] blocks describe, in the form
//the method constructors take it.
func (c *Config) Shape() (points []int, lower, upper []float64, periodic []bool) {
	n := len(c.CVs)
	points = make([]int, n)
	lower = make([]float64, n)
	upper = make([]float64, n)
	periodic = make([]bool, n)
	for i, cv := range c.CVs {
		points[i] = cv.Bins
		lower[i] = cv.Lower
		upper[i] = cv.Upper
		periodic[i] = cv.Periodic
	}
	return points, lower, upper, periodic
}

//Names returns the name of each collective variable, in order.
func (c *Config) Names() []string {
	names := make([]string, len(c.CVs))
	for i, cv := range c.CVs {
		names[i] = cv.Name
	}
	return names
}

//Restraints returns the walls of the [[cv]] blocks, or nil when no CV
//carries a spring. CVs without walls get zero-spring placeholders, so
//the slice always matches the CV count.
func (c *Config) Restraints() []sages.Restraint {
	any := false
	walls := make([]sages.Restraint, len(c.CVs))
	for i, cv := range c.CVs {
		if cv.Spring > 0 {
			any = true
			walls[i] = sages.Restraint{Lower: cv.RestraintLower, Upper: cv.RestraintUpper, Spring: cv.Spring}
		}
	}
	if !any {
		return nil
	}
	return walls
}

//Options assembles the method options this configuration describes.
//The walker handle and the log writer are runtime things a file cannot
//carry, so they come in as arguments; both may be nil. Only the first
//walker gets the output and checkpoint paths: the synchronized totals
//are the same on every walker, and two walkers writing one file leave
//neither's content.
func (c *Config) Options(wk *ensemble.Walker, wlog io.Writer) *sages.Options {
	o := sages.DefaultOptions()
	o.Timestep(c.Method.Timestep)
	o.MinCount(c.Method.MinCount)
	o.UnitConversion(c.Method.UnitConv)
	o.ReduceEvery(c.Method.ReduceEvery)
	o.PrintEvery(c.Method.PrintEvery)
	o.BackupEvery(c.Method.BackupEvery)
	p, _ := sages.ParseRestraintPolicy(c.Method.Policy) //Validate vetted it
	o.Policy(p)
	o.Orthogonalization(c.Method.Ortho)
	if walls := c.Restraints(); walls != nil {
		o.Restraints(walls)
	}
	if wk != nil {
		o.Walker(wk)
	}
	if wlog != nil {
		o.WalkerLog(wlog)
	}
	if wk == nil || wk.Rank() == 0 {
		if c.Run.Output != "" {
			o.Filename(c.Run.Output)
		}
		o.CheckpointPath(c.Run.Checkpoint)
		o.CheckpointEvery(c.Run.CheckpointInterval)
	}
	return o
}

//NewABF builds the ABF method this configuration describes, for one
//walker. Both arguments may be nil.
func (c *Config) NewABF(wk *ensemble.Walker, wlog io.Writer) (*sages.ABF, error) {
	points, lower, upper, periodic := c.Shape()
	return sages.NewABF(points, lower, upper, periodic, c.Options(wk, wlog))
}
