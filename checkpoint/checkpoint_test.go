package checkpoint

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testdir = "../test"

func sample() *Document {
	return &Document{
		Method:      "abf",
		Walkers:     2,
		Iteration:   11,
		Points:      []int{10},
		Lower:       []float64{0},
		Upper:       []float64{10},
		Periodic:    []bool{false},
		Counts:      []int{4, 0, 0, 11, 0, 0, 0, 0, 0, 0, 0, 2},
		Forces:      []float64{-1.5, 0, 0, 11, 0, 0, 0, 0, 0, 0, 0, 0.25},
		Wdotpold:    []float64{2.25},
		Fold:        []float64{1.0},
		RestraintLo: []float64{-1},
		RestraintHi: []float64{11},
		Springs:     []float64{10},
		Timestep:    2.0,
		MinCount:    5,
		UnitConv:    1.0,
		Ortho:       true,
		Policy:      "additive",
		ReduceEvery: 1,
		BackupEvery: -1,
		Filename:    "forces.dat",
	}
}

//TestSaveLoad writes a document, reads it back and writes the copy
//again: the copy must match the original and the second file must
//match the first byte for byte.
func TestSaveLoad(Te *testing.T) {
	doc := sample()
	path := testdir + "/ckpt.json"
	if err := Save(path, doc); err != nil {
		Te.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		Te.Errorf("document changed in the round trip:\n%s", diff)
	}
	path2 := testdir + "/ckpt2.json"
	if err := Save(path2, got); err != nil {
		Te.Fatal(err)
	}
	b1, err := os.ReadFile(path)
	if err != nil {
		Te.Fatal(err)
	}
	b2, err := os.ReadFile(path2)
	if err != nil {
		Te.Fatal(err)
	}
	if string(b1) != string(b2) {
		Te.Error("rewriting a loaded document changed the bytes")
	}
	fmt.Println("checkpoint round trip stable at", len(b1), "bytes")
}

//TestSaveLoadCompressed covers the compressed flavors, which the
//filename extension selects.
func TestSaveLoadCompressed(Te *testing.T) {
	doc := sample()
	for _, path := range []string{testdir + "/ckpt.json.zst", testdir + "/ckpt.json.gz"} {
		if err := Save(path, doc); err != nil {
			Te.Fatal(err)
		}
		got, err := Load(path)
		if err != nil {
			Te.Fatal(err)
		}
		if diff := cmp.Diff(doc, got); diff != "" {
			Te.Errorf("%s: document changed in the round trip:\n%s", path, diff)
		}
	}
}

//TestCheckRejects walks the ways a document can be inconsistent.
func TestCheckRejects(Te *testing.T) {
	cases := map[string]func(*Document){
		"no method":        func(d *Document) { d.Method = "" },
		"no walkers":       func(d *Document) { d.Walkers = 0 },
		"shape mismatch":   func(d *Document) { d.Lower = []float64{0, 0} },
		"bad bounds":       func(d *Document) { d.Upper = []float64{0} },
		"short counts":     func(d *Document) { d.Counts = d.Counts[:5] },
		"short forces":     func(d *Document) { d.Forces = d.Forces[:5] },
		"negative count":   func(d *Document) { d.Counts[0] = -1 },
		"short memory":     func(d *Document) { d.Wdotpold = nil },
		"broken restraint": func(d *Document) { d.Springs = d.Springs[:0] },
		"bad timestep":     func(d *Document) { d.Timestep = 0 },
		"bad floor":        func(d *Document) { d.MinCount = -1 },
		"bad iteration":    func(d *Document) { d.Iteration = -1 },
	}
	for name, breakit := range cases {
		doc := sample()
		breakit(doc)
		if err := doc.Check(); err == nil {
			Te.Errorf("%s: Check accepted the document", name)
		}
	}
	if err := sample().Check(); err != nil {
		Te.Error("Check rejected a consistent document:", err)
	}
}

//TestLoadRejects feeds the loader things that are not checkpoints.
func TestLoadRejects(Te *testing.T) {
	if _, err := Load(testdir + "/no_such_checkpoint.json"); err == nil {
		Te.Error("loading a missing file should fail")
	}
	garbled := testdir + "/garbled.json"
	if err := os.WriteFile(garbled, []byte("{\"method\": \"abf\","), 0644); err != nil {
		Te.Fatal(err)
	}
	if _, err := Load(garbled); err == nil {
		Te.Error("loading truncated JSON should fail")
	}
	cerr, ok := func() (Error, bool) {
		_, err := Load(garbled)
		e, ok := err.(Error)
		return e, ok
	}()
	if !ok {
		Te.Error("the loader should return the package error type")
	} else if cerr.FileName() != garbled {
		Te.Errorf("the error names %q, want %q", cerr.FileName(), garbled)
	}
	//well-formed JSON that fails the coherence checks
	path := testdir + "/incoherent.json"
	f, err := os.Create(path)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Fprintf(f, "{\"method\":\"abf\",\"walkers\":0}")
	f.Close()
	if _, err := Load(path); err == nil {
		Te.Error("loading an incoherent document should fail")
	}
}
