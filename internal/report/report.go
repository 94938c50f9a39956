// Package report renders scan, checklist and exit results as terminal
// tables. It is a display collaborator: it reads the core's structured
// outputs and owns no decision logic.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/tradecraft-io/spreadscan/internal/exits"
	"github.com/tradecraft-io/spreadscan/internal/gate"
	"github.com/tradecraft-io/spreadscan/internal/scan"
)

// WriteScanResults renders one row per underlying: the best candidate
// when the scan passed, otherwise the headline rejection and the near
// miss when one qualified.
func WriteScanResults(w io.Writer, results []scan.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Underlying", "Spread", "Strikes", "Net", "Cushion", "RoR", "PoP", "Verdict"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, res := range results {
		if c := res.BestCandidate; c != nil {
			table.Append([]string{
				res.Underlying,
				string(res.SpreadType),
				fmt.Sprintf("%.2f/%.2f", c.LongStrike, c.ShortStrike),
				fmt.Sprintf("%.2f", c.NetPrice),
				fmt.Sprintf("%.1f%%", c.CushionPct),
				fmt.Sprintf("%.2f", c.ReturnOnRisk),
				fmt.Sprintf("%.0f%%", c.ProbabilityOfProfit),
				"PASS",
			})
			continue
		}
		table.Append([]string{
			res.Underlying,
			string(res.SpreadType),
			"-", "-", "-", "-", "-",
			string(res.RejectionReason),
		})
	}
	table.Render()

	for _, res := range results {
		if res.BestCandidate == nil {
			writeDiagnostics(w, res)
		}
	}
}

// writeDiagnostics prints the rejection tally and near miss for one
// underlying that found nothing.
func writeDiagnostics(w io.Writer, res scan.Result) {
	fmt.Fprintf(w, "\n%s: no passing candidate (%d rejections)\n", res.Underlying, res.RejectionStats.Total())

	reasons := make([]string, 0, len(res.RejectionStats))
	for r := range res.RejectionStats {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(w, "  %-28s %d\n", r, res.RejectionStats[scan.RejectionReason(r)])
	}

	if res.NearMiss != nil && res.NearMissCheck != nil {
		fmt.Fprintf(w, "  near miss: %.2f/%.2f failed %s (observed %.2f, needed %.2f)\n",
			res.NearMiss.LongStrike, res.NearMiss.ShortStrike,
			res.NearMissCheck.Reason, res.NearMissCheck.Observed, res.NearMissCheck.Threshold)
	}
}

// WriteChecklist renders the entry-gate checklist.
func WriteChecklist(w io.Writer, res gate.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Condition", "Importance", "Observed", "Threshold", "Status"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, c := range res.Conditions {
		status := "FAIL"
		if c.Passed {
			status = "PASS"
		}
		table.Append([]string{c.ID, string(c.Importance), c.Observed, c.Threshold, status})
	}
	table.Render()
	fmt.Fprintln(w, res.Summary)
}

// WriteExitDecisions renders one row per open position.
func WriteExitDecisions(w io.Writer, positions []exits.PositionSnapshot, decisions []exits.Decision) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Underlying", "Type", "P/L", "DTE", "Action", "Reason", "Urgency"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for i, pos := range positions {
		dec := decisions[i]
		action := "HOLD"
		if dec.ShouldClose {
			action = "CLOSE"
		}
		table.Append([]string{
			pos.Underlying,
			string(pos.Type),
			fmt.Sprintf("%+.0f%%", pos.ProfitPct()*100),
			fmt.Sprintf("%d", pos.DaysRemaining),
			action,
			string(dec.Reason),
			string(dec.Urgency),
		})
	}
	table.Render()
}
