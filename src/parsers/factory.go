package parsers

import (
	"fmt"

	"github.com/dhruvtrip/vizvest-app/src/parsers/trading212"
)

// GetParser returns the parser registered for a source identifier.
func GetParser(source string) (Parser, error) {
	switch source {
	case "trading212":
		return trading212.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}
