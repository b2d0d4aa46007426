package display

import (
	"github.com/goccy/go-json"
)

// MarshalJSON marshals JSON with two-space indentation
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
