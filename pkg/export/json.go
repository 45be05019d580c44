package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/slotter/pkg/constraint"
)

// ExportJSON serializes the solution to JSON with 2-space indentation.
func ExportJSON(sol *constraint.Solution) ([]byte, error) {
	if sol == nil {
		return nil, fmt.Errorf("solution cannot be nil")
	}
	return json.MarshalIndent(sol, "", "  ")
}

// ExportJSONCompact serializes the solution without indentation, suitable
// for storage or transmission.
func ExportJSONCompact(sol *constraint.Solution) ([]byte, error) {
	if sol == nil {
		return nil, fmt.Errorf("solution cannot be nil")
	}
	return json.Marshal(sol)
}

// SaveJSONToFile exports the solution to a JSON file with indentation.
// The file is created with 0644 permissions.
func SaveJSONToFile(sol *constraint.Solution, filepath string) error {
	data, err := ExportJSON(sol)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}
