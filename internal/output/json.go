package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONResult is the envelope for --json output.
type JSONResult struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // command-specific payload
	Error  string      `json:"error,omitempty"` // error message, if any
	Code   int         `json:"exitCode,omitempty"`
}

// Stdout is where JSON documents and command results are written. Tests
// replace it.
var Stdout io.Writer = os.Stdout

// JSON writes a successful result.
func JSON(data interface{}) {
	writeJSON(JSONResult{Status: "ok", Data: data})
}

// JSONError writes an error result.
func JSONError(err error) {
	writeJSON(JSONResult{Status: "error", Error: err.Error()})
}

// JSONFailure writes an error result that still carries a payload, e.g. the
// attempts of an exhausted run.
func JSONFailure(data interface{}, err error, code int) {
	writeJSON(JSONResult{Status: "error", Data: data, Error: err.Error(), Code: code})
}

func writeJSON(result JSONResult) {
	enc := json.NewEncoder(Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "error encoding JSON output: %v\n", err)
	}
}
