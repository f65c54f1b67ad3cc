package testsupport

import (
	"encoding/json"
	"os"
)

// LoadGolden decodes the JSON golden file at path into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
