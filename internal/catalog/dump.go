package catalog

import (
	gotoml "github.com/pelletier/go-toml/v2"

	"catalog/internal/errors"
)

// Dump serializes the repository as a TOML fixture that LoadFile accepts.
func Dump(r *Repository) ([]byte, error) {
	data, err := gotoml.Marshal(FixtureOf(r))
	if err != nil {
		return nil, errors.Wrap(errors.InternalError, "encode toml catalog", err)
	}
	return data, nil
}
