package export

import "fmt"

// OutputExistsError is returned when the output directory already exists.
// An export never writes into an existing directory.
type OutputExistsError struct {
	Path string
}

func (e *OutputExistsError) Error() string {
	return fmt.Sprintf("output path %s already exists; specify a path that does not exist", e.Path)
}
