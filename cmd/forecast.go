package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/molisha70-dotcom/Economic/internal/forecast"
	"github.com/molisha70-dotcom/Economic/internal/report"
	"github.com/molisha70-dotcom/Economic/internal/session"
)

var (
	forecastText    string
	forecastFile    string
	forecastCountry string
	forecastHorizon int
	forecastAssume  string
	forecastXLSX    string
	forecastJSON    bool
	forecastExplain bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast GDP growth paths from policy text",
	Example: `  growth forecast --country Japan --text "港湾と鉄道に1.5兆円を投資"
  growth forecast --file policy.txt --horizon 8 --assume "inflation_recent:2.5 income_tier:low"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readPolicyText(cmd.InOrStdin())
		if err != nil {
			return err
		}

		env, err := initEnv(cmd.Context(), cfg, "forecast")
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Pipeline.Run(cmd.Context(), forecast.Request{
			Text:      text,
			Country:   forecastCountry,
			Horizon:   forecastHorizon,
			Overrides: session.ParseAssignments(forecastAssume),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if forecastJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return eris.Wrap(err, "encode result")
			}
		} else {
			fmt.Fprintln(out, report.Summary(res))
			if forecastExplain {
				fmt.Fprintln(out)
				fmt.Fprintln(out, res.Explain)
			}
		}

		if forecastXLSX != "" {
			if err := report.SaveXLSX(forecastXLSX, res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", forecastXLSX)
		}
		return nil
	},
}

// readPolicyText takes the policy text from --text, then --file ("-" for
// stdin).
func readPolicyText(stdin io.Reader) (string, error) {
	if strings.TrimSpace(forecastText) != "" {
		return forecastText, nil
	}
	switch forecastFile {
	case "":
		return "", eris.New("one of --text or --file is required")
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", eris.Wrap(err, "read stdin")
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(forecastFile)
		if err != nil {
			return "", eris.Wrapf(err, "read %s", forecastFile)
		}
		return string(data), nil
	}
}

func init() {
	forecastCmd.Flags().StringVar(&forecastText, "text", "", "policy text")
	forecastCmd.Flags().StringVar(&forecastFile, "file", "", "read policy text from file (- for stdin)")
	forecastCmd.Flags().StringVar(&forecastCountry, "country", "", "country name or ISO3 code")
	forecastCmd.Flags().IntVar(&forecastHorizon, "horizon", 0, "forecast years, 1-10 (default from config)")
	forecastCmd.Flags().StringVar(&forecastAssume, "assume", "", `profile overrides as "key:value" pairs`)
	forecastCmd.Flags().StringVar(&forecastXLSX, "xlsx", "", "also write the result to an XLSX workbook")
	forecastCmd.Flags().BoolVar(&forecastJSON, "json", false, "print the full result as JSON")
	forecastCmd.Flags().BoolVar(&forecastExplain, "explain", false, "print the explanation trace after the summary")
	rootCmd.AddCommand(forecastCmd)
}
