package file

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// LoadRules reads validation rules from a TOML file:
//
//	min_rows = 1
//	required = ["id", "name"]
//	key_columns = ["id"]
//	unique = ["id"]
//
//	[[ranges]]
//	column = "price"
//	min = 0.0
func LoadRules(path string) (*domain.ValidationRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rules domain.ValidationRules
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&rules); err != nil {
		return nil, fmt.Errorf("%w: parsing rules %s: %v", domain.ErrInvalidInput, path, err)
	}
	return &rules, nil
}
