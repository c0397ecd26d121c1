package ensemble

import "fmt"

//Errors

//errDecorate asserts that err implements the package Error and adds
//the caller's name to it before returning it.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

//Error is the structure for reduction errors. The rank tells which
//walker the problem came from, when there is one to blame.
type Error struct {
	message string
	rank    int
	cause   error
	deco    []string
}

func (err Error) Error() string {
	if err.cause != nil {
		return fmt.Sprintf("goSAGES/ensemble error: %s (rank %d): %v", err.message, err.rank, err.cause)
	}
	return fmt.Sprintf("goSAGES/ensemble error: %s", err.message)
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

//Rank returns the rank of the walker behind the error.
func (err Error) Rank() int { return err.rank }

//Cause returns the walker-side error wrapped in a failed reduction,
//or nil.
func (err Error) Cause() error { return err.cause }

const (
	BadWorldSize  = "A world needs at least one walker"
	BadRank       = "No such rank in this world"
	ShutDown      = "The world was shut down"
	ShapeMismatch = "Walkers disagree on the shape of the reduced arenas"
	WalkerFailure = "A walker aborted the reduction"
)
