package grid

import "fmt"

//Errors

//errDecorate asserts that err implements the package Error and adds
//the caller's name to it before returning it.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

//Error is the structure for grid errors. Construction-parameter
//problems are flagged as configuration errors; everything else is an
//indexing error.
type Error struct {
	message string
	deco    []string
	config  bool
}

func (err Error) Error() string {
	return fmt.Sprintf("goSAGES/grid error: %s", err.message)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	//Not a pointer receiver, but it still works: E.deco is a slice,
	//and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//Configuration returns true if the error comes from invalid
//construction parameters, false if it comes from a lookup.
func (err Error) Configuration() bool { return err.config }

const (
	BadDimension    = "A grid needs at least one dimension"
	MismatchedShape = "Mismatched lengths in the grid construction vectors"
	BadPoints       = "Every dimension needs at least one point"
	BadBounds       = "Every lower bound must sit strictly below its upper bound"
	BadVector       = "Vector length does not match the grid dimensionality"
	Unmappable      = "Value cannot be mapped to any bin"
	OutOfRange      = "Bin index out of range"
	BadStoredData   = "Stored grid data does not match the declared shape"
)
