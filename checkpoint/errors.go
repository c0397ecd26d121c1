package checkpoint

import "fmt"

//Errors

//errDecorate asserts that err implements the package Error and adds
//the caller's name to it before returning it.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

//Error is the structure for checkpoint errors. It fullfills the
//library's Error interface.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
}

func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("goSAGES/checkpoint error: %s", err.message)
	}
	return fmt.Sprintf("goSAGES/checkpoint file %s error: %s", err.filename, err.message)
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

//FileName returns the file the failing document was associated to.
func (err Error) FileName() string { return err.filename }

const (
	NoMethod       = "The document does not name a method"
	BadShape       = "The stored grid shape is invalid"
	BadArenas      = "The stored arenas do not match the stored shape"
	NegativeCount  = "The stored hit counts include a negative value"
	BadMemory      = "The stored step memory does not match the number of CVs"
	BadRestraints  = "The stored restraints do not match the number of CVs"
	BadParameters  = "The stored run parameters are out of range"
	EncodingFailed = "Could not encode the document"
	DecodingFailed = "Could not decode the document"
	UnableToCreate = "Unable to create file"
	UnableToOpen   = "Unable to open file"
	WriteFailed    = "Could not write the document"
	ReadFailed     = "Could not read the document"
)
