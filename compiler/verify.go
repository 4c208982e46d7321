package compiler

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// Verify parses src as JavaScript and returns the first syntax error.
func Verify(src string) error {
	if _, err := js.Parse(parse.NewInputString(src), js.Options{}); err != nil {
		return fmt.Errorf("generated JavaScript does not parse: %w", err)
	}
	return nil
}
