package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/eshaffer321/rankbudget/internal/application/service"
	"github.com/eshaffer321/rankbudget/internal/domain/allocator"
	"github.com/eshaffer321/rankbudget/internal/domain/curve"
	"github.com/eshaffer321/rankbudget/internal/domain/report"
)

// PrintHeader prints the application header
func PrintHeader(w io.Writer, mode string, keywords int) {
	fmt.Fprintf(w, "rankbudget: %s (%d keywords)\n\n", mode, keywords)
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintOptimizeResult prints channel summaries and the per-keyword table.
func PrintOptimizeResult(w io.Writer, r *service.OptimizeResult) {
	PrintHeader(w, "greedy downgrade, objective "+string(r.Objective), len(r.Report.Rows))

	for _, s := range []*report.ChannelSummary{r.Report.PC, r.Report.Mobile} {
		if s == nil {
			continue
		}
		fmt.Fprintf(w, "%-7s %-15s budget=%s cost=%s overrun=%s kept_top=%d downgraded=%d rejected=%d\n",
			s.Channel.Label(), s.Status,
			num(s.Budget), num(s.Totals.Cost), num(s.Overrun),
			s.KeptTop, s.Downgraded, s.Rejected)
	}
	fmt.Fprintln(w)

	printRows(w, r.Report.Rows, r.Report.Totals)
	printRejected(w, r.PC.Rejected, r.Mobile.Rejected)
	printFooter(w, r.RunID, r.Persisted)
}

// PrintUniformResult prints the chosen uniform rank per channel.
func PrintUniformResult(w io.Writer, r *service.UniformResult) {
	PrintHeader(w, "uniform rank", len(r.Rows))

	for _, u := range []*allocator.UniformResult{r.PC, r.Mobile} {
		if u.Feasible {
			fmt.Fprintf(w, "%-7s rank %d  budget=%s cost=%s\n",
				u.Channel.Label(), u.Rank, num(u.Budget), num(u.TotalCost))
			continue
		}
		fmt.Fprintf(w, "%-7s infeasible  budget=%s\n", u.Channel.Label(), num(u.Budget))
	}
	fmt.Fprintln(w)

	printRows(w, r.Rows, r.Totals)
	printRejected(w, r.PC.Rejected, r.Mobile.Rejected)
	printFooter(w, r.RunID, r.Persisted)
}

// PrintAnalysis prints a fixed-rank analysis.
func PrintAnalysis(w io.Writer, r *service.AnalyzeResult) {
	PrintHeader(w, fmt.Sprintf("analysis at PC rank %d, Mobile rank %d", r.PCRank, r.MobileRank), r.Summary.TotalKeywords)

	var total report.Totals
	for _, row := range r.Keywords {
		total = report.Merge(total, row.Totals)
	}
	printRows(w, r.Keywords, total)

	fmt.Fprintf(w, "\nSummary: Keywords=%d Clicks=%s Cost=%s AvgCPC=%s\n",
		r.Summary.TotalKeywords, num(r.Summary.TotalClicks), num(r.Summary.TotalCost), num(r.Summary.AvgCPC))
	printFooter(w, r.RunID, r.Persisted)
}

func printRows(w io.Writer, rows []report.Row, total report.Totals) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "KEYWORD\tPC RANK\tPC COST\tMO RANK\tMO COST\tIMPR\tCLICKS\tCTR\tCPC\tCOST\t")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			row.Keyword,
			rank(row.PC), cost(row.PC),
			rank(row.Mobile), cost(row.Mobile),
			num(row.Totals.Impressions), num(row.Totals.Clicks),
			num(row.Totals.CTR), num(row.Totals.CPC), num(row.Totals.Cost))
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t\t\t%s\t%s\t%s\t%s\t%s\t\n",
		num(total.Impressions), num(total.Clicks), num(total.CTR), num(total.CPC), num(total.Cost))
	_ = tw.Flush()
}

func printRejected(w io.Writer, groups ...[]curve.Diagnostic) {
	var lines []string
	for _, diags := range groups {
		for _, d := range diags {
			lines = append(lines, "  - "+d.String())
		}
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "\nRejected curves:\n%s\n", strings.Join(lines, "\n"))
}

func printFooter(w io.Writer, runID string, persisted bool) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if persisted {
		fmt.Fprintf(w, "Run %s saved.\n", runID)
		return
	}
	fmt.Fprintf(w, "Run %s (not saved)\n", runID)
}

func rank(p *curve.RankPoint) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(p.Rank)
}

func cost(p *curve.RankPoint) string {
	if p == nil {
		return "-"
	}
	return num(p.Cost)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
