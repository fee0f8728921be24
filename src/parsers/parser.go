package parsers

import (
	"io"

	"github.com/dhruvtrip/vizvest-app/src/models"
)

// Parser converts one broker export into raw transaction rows. The rows keep
// their source string values; validation and typed coercion happen downstream.
type Parser interface {
	Parse(file io.Reader) ([]models.RawTransaction, error)
}
