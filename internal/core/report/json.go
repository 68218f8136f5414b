package report

import (
	"encoding/json"
	"io"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// WriteJSON 以缩进 JSON 写出报告
func WriteJSON(w io.Writer, r *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
