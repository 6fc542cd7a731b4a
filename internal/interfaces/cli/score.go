package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debnit/MsmeBazaar-sub003/internal/domain/buyer"
	"github.com/debnit/MsmeBazaar-sub003/internal/domain/listing"
	"github.com/debnit/MsmeBazaar-sub003/internal/matching"
)

// scoreInput is the JSON document accepted by the score command: one
// listing and one buyer profile side by side.
type scoreInput struct {
	Listing *listing.Listing `json:"listing"`
	Buyer   *buyer.Profile   `json:"buyer"`
}

// newScoreCmd creates the score command.
func newScoreCmd(root *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one listing against one buyer",
		Long:  "Reads a JSON document with a listing and a buyer profile from --file\n(or stdin) and prints the full compatibility score with its factor\nbreakdown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			var in scoreInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("parse input: %w", err)
			}
			if in.Listing == nil || in.Buyer == nil {
				return fmt.Errorf("input must contain both a listing and a buyer")
			}

			scorer := matching.NewScorer(nil)
			result := scorer.Score(in.Listing, in.Buyer.City, in.Buyer.Preferences)
			result.BuyerID = in.Buyer.ID

			if root.output == "json" {
				return printJSON(cmd, result)
			}
			printScoreText(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the listing+buyer JSON file (default: stdin)")

	return cmd
}

func printScoreText(cmd *cobra.Command, r *matching.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total score:    %d (%s)\n", r.TotalScore, r.Recommendation)
	fmt.Fprintln(out, "Factors:")
	fmt.Fprintf(out, "  industry:     %.2f\n", r.Factors.IndustryMatch)
	fmt.Fprintf(out, "  size:         %.2f\n", r.Factors.SizeMatch)
	fmt.Fprintf(out, "  budget:       %.2f\n", r.Factors.BudgetMatch)
	fmt.Fprintf(out, "  location:     %.2f\n", r.Factors.LocationProximity)
	fmt.Fprintf(out, "  risk:         %.2f\n", r.Factors.RiskProfile)
	fmt.Fprintf(out, "  timeline:     %.2f\n", r.Factors.TimelineMatch)
	fmt.Fprintf(out, "  strategic:    %.2f\n", r.Factors.StrategicFit)
	if len(r.Reasoning) > 0 {
		fmt.Fprintln(out, "Reasoning:")
		for _, line := range r.Reasoning {
			fmt.Fprintf(out, "  - %s\n", line)
		}
	}
}
