package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/molisha70-dotcom/Economic/internal/ensemble"
	"github.com/molisha70-dotcom/Economic/internal/extract"
	"github.com/molisha70-dotcom/Economic/internal/model"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [results.json]",
	Short: "Merge extraction results into a consensus policy set",
	Long:  "Reads a JSON array of extraction results (file argument or stdin) and prints the consensus set. Malformed entries are skipped.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		results, err := decodeResults(data)
		if err != nil {
			return err
		}

		m := ensemble.Merger{ClusterThreshold: cfg.Forecast.ClusterThreshold}
		return writeJSON(cmd.OutOrStdout(), m.Merge(results))
	},
}

// decodeResults coerces each array element into an ExtractionResult. A
// non-object element is skipped.
func decodeResults(data []byte) ([]model.ExtractionResult, error) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "merge: input must be a JSON array")
	}
	results := make([]model.ExtractionResult, 0, len(raw))
	for i, r := range raw {
		obj, ok := r.(map[string]any)
		if !ok {
			zap.L().Warn("merge: skipping non-object result", zap.Int("index", i))
			continue
		}
		provider, _ := obj["provider"].(string)
		results = append(results, extract.Coerce(provider, obj))
	}
	return results, nil
}

// readInput reads the file named by args[0], or stdin when args is empty
// or "-".
func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		return data, eris.Wrap(err, "read stdin")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", args[0])
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
