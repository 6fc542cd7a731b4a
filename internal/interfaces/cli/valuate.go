package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debnit/MsmeBazaar-sub003/internal/valuation"
)

// newValuateCmd creates the valuate command.  It runs the heuristic
// valuation path only; ML-assisted valuations go through the API server.
func newValuateCmd(root *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "valuate",
		Short: "Value a business from its financials",
		Long:  "Reads business financials as JSON from --file (or stdin) and prints the\nheuristic valuation with its risk score and recommendations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return fmt.Errorf("read financials: %w", err)
			}

			var fin valuation.BusinessFinancials
			if err := json.Unmarshal(raw, &fin); err != nil {
				return fmt.Errorf("parse financials: %w", err)
			}

			orch := valuation.NewOrchestrator(valuation.OrchestratorOptions{})
			result, err := orch.Valuate(cmd.Context(), &fin)
			if err != nil {
				return err
			}

			if root.output == "json" {
				return printJSON(cmd, result)
			}
			printValuationText(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the financials JSON file (default: stdin)")

	return cmd
}

func printValuationText(cmd *cobra.Command, r *valuation.ValuationResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Valuation:   %.0f\n", r.Valuation)
	fmt.Fprintf(out, "Confidence:  %.2f\n", r.Confidence)
	fmt.Fprintf(out, "Methodology: %s\n", r.Methodology)
	fmt.Fprintf(out, "Risk score:  %d\n", r.RiskScore)
	fmt.Fprintf(out, "Breakdown:   assets %.0f, earnings %.0f, market %.0f, risk %.0f\n",
		r.Breakdown.AssetValue, r.Breakdown.EarningsMultiple,
		r.Breakdown.MarketAdjustment, r.Breakdown.RiskAdjustment)
	if len(r.Sensitivity) > 0 {
		fmt.Fprintln(out, "Sensitivity:")
		for _, s := range r.Sensitivity {
			fmt.Fprintf(out, "  %-18s %12.0f (%+.1f%%)\n", s.Name, s.Valuation, s.DeltaPct)
		}
	}
	if len(r.Recommendations) > 0 {
		fmt.Fprintln(out, "Recommendations:")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(out, "  %d. %s\n", i+1, rec)
		}
	}
}
