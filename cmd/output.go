package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/model"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProvenance(label string, p model.Provenance) {
	fmt.Println(cli.RenderProvenance(label, p))
}

// everyNth keeps every nth index plus the last one, for weekly tables.
func everyNth(n, step int) []int {
	if step < 1 {
		step = 1
	}
	var idx []int
	for i := 0; i < n; i += step {
		idx = append(idx, i)
	}
	if n > 0 && idx[len(idx)-1] != n-1 {
		idx = append(idx, n-1)
	}
	return idx
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return "not configured"
	case len(s) > 16:
		return s[:8] + "..." + s[len(s)-4:]
	case len(s) > 4:
		return s[:4] + "..."
	default:
		return "****"
	}
}
