package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"cashplan/internal/engine"
)

// WriteJSON streams the projection output as indented JSON.
func WriteJSON(w io.Writer, out *engine.Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return eris.Wrap(err, "report: encode json")
	}
	return nil
}
