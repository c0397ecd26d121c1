//Package checkpoint persists the full state of a biasing method as a
//JSON document, plain or compressed, and restores it with enough
//validation that a run never resumes from silently broken state.
package checkpoint

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/hadi-ramezani/gosages/grid"
)

//Document is everything a method needs to come back to life: the
//grid shape, the accumulated arenas, the step-to-step memory and the
//run parameters. Fields the method does not use stay at their zero
//values.
type Document struct {
	Method      string    `json:"method"`
	RunID       string    `json:"run_id,omitempty"`
	Walkers     int       `json:"walkers"`
	Iteration   int       `json:"iteration"`
	Points      []int     `json:"cv_bins"`
	Lower       []float64 `json:"cv_minimums"`
	Upper       []float64 `json:"cv_maximums"`
	Periodic    []bool    `json:"cv_periodic"`
	Counts      []int     `json:"hit_counts"`
	Forces      []float64 `json:"force_sums"`
	Wdotpold    []float64 `json:"wdotp_old"`
	Fold        []float64 `json:"force_old"`
	RestraintLo []float64 `json:"cv_restraint_minimums,omitempty"`
	RestraintHi []float64 `json:"cv_restraint_maximums,omitempty"`
	Springs     []float64 `json:"cv_restraint_springs,omitempty"`
	Timestep    float64   `json:"timestep"`
	MinCount    int       `json:"minimum_count"`
	UnitConv    float64   `json:"unit_conversion"`
	Ortho       bool      `json:"orthogonalization"`
	Policy      string    `json:"restraint_policy,omitempty"`
	ReduceEvery int       `json:"reduction_interval"`
	PrintEvery  int       `json:"print_interval"`
	BackupEvery int       `json:"backup_interval"`
	Filename    string    `json:"filename,omitempty"`
}

//Check verifies that the document is internally coherent: the declared
//shape builds a valid grid and every arena has exactly the size that
//shape implies. It does not judge the physics, only the structure.
func (doc *Document) Check() error {
	if doc.Method == "" {
		return Error{message: NoMethod}
	}
	g, err := grid.New[int](doc.Points, doc.Lower, doc.Upper, doc.Periodic)
	if err != nil {
		return Error{message: BadShape + ": " + err.Error()}
	}
	ncv := g.Dims()
	if len(doc.Counts) != g.Len() || len(doc.Forces) != g.Len()*ncv {
		return Error{message: BadArenas}
	}
	for _, v := range doc.Counts {
		if v < 0 {
			return Error{message: NegativeCount}
		}
	}
	if len(doc.Wdotpold) != ncv || len(doc.Fold) != ncv {
		return Error{message: BadMemory}
	}
	nr := len(doc.RestraintLo)
	if nr != len(doc.RestraintHi) || nr != len(doc.Springs) || (nr != 0 && nr != ncv) {
		return Error{message: BadRestraints}
	}
	if doc.Timestep <= 0 || doc.MinCount < 0 || doc.Iteration < 0 || doc.Walkers < 1 {
		return Error{message: BadParameters}
	}
	return nil
}

//Save writes the document to path. The extension picks the encoding:
//.zst and .zstd get zstd, .gz gets gzip, anything else is written
//plain. Writing the same document twice produces identical bytes.
func Save(path string, doc *Document) error {
	if err := doc.Check(); err != nil {
		return errDecorate(err, "Save "+path)
	}
	j, err := json.MarshalIndent(doc, "", " ")
	if err != nil {
		return Error{message: EncodingFailed + ": " + err.Error(), filename: path}
	}
	f, err := os.Create(path)
	if err != nil {
		return Error{message: UnableToCreate + ": " + err.Error(), filename: path}
	}
	defer f.Close()
	h, err := anyNewWriter(path, f)
	if err != nil {
		return Error{message: UnableToCreate + ": " + err.Error(), filename: path}
	}
	if _, err := h.Write(j); err != nil {
		h.Close()
		return Error{message: WriteFailed + ": " + err.Error(), filename: path}
	}
	if err := h.Close(); err != nil {
		return Error{message: WriteFailed + ": " + err.Error(), filename: path}
	}
	return nil
}

//Load reads a document written by Save, picking the decoder from the
//extension the same way. Anything wrong with the file, from a missing
//path to a truncated stream to incoherent contents, is an error; a
//restart never limps on from a broken document.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Error{message: UnableToOpen + ": " + err.Error(), filename: path}
	}
	defer f.Close()
	h, err := anyNewReader(path, f)
	if err != nil {
		return nil, Error{message: UnableToOpen + ": " + err.Error(), filename: path}
	}
	defer h.Close()
	j, err := io.ReadAll(h)
	if err != nil {
		return nil, Error{message: ReadFailed + ": " + err.Error(), filename: path}
	}
	doc := new(Document)
	if err := json.Unmarshal(j, doc); err != nil {
		return nil, Error{message: DecodingFailed + ": " + err.Error(), filename: path}
	}
	if err := doc.Check(); err != nil {
		return nil, errDecorate(err, "Load "+path)
	}
	return doc, nil
}

//the last letter of the path is enough to tell the supported
//encodings apart, and spares the dots-in-filenames bookkeeping.
func anyNewWriter(path string, f io.Writer) (io.WriteCloser, error) {
	switch strings.ToLower(path)[len(path)-1] {
	case 't', 'd':
		return zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case 'z':
		return gzip.NewWriterLevel(f, gzip.BestCompression)
	default:
		return nopWriteCloser{f}, nil
	}
}

func anyNewReader(path string, f io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(path)[len(path)-1] {
	case 't', 'd':
		r, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &stdql{r.Close, r}, nil
	case 'z':
		return gzip.NewReader(f)
	default:
		return io.NopCloser(f), nil
	}
}

//zstd.Decoder.Close returns nothing, so it needs a little help to
//fit io.ReadCloser.
type stdql struct {
	closeql func()
	*zstd.Decoder
}

func (s stdql) Close() error {
	s.closeql()
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
