package main

import (
	"io"
	"sort"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"olistcli/internal/dataprocessing"
	"olistcli/pkg/contracts/domain"
)

// printSummary writes the report as plain text tables
func printSummary(w io.Writer, r *domain.Report, stats dataprocessing.Stats) {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	p.Fprintf(tw, "Olist order analytics (run %s)\n\n", r.RunID)

	p.Fprintf(tw, "Rows\t%d\n", r.Rows)
	p.Fprintf(tw, "Orders\t%d\n", r.KPIs.OrderCount)
	p.Fprintf(tw, "Items\t%d\n", r.KPIs.ItemCount)
	p.Fprintf(tw, "Total sales\t%s\n", r.KPIs.TotalSales.StringFixed(2))
	p.Fprintf(tw, "Average basket\t%s\n", r.KPIs.AverageBasket.StringFixed(2))
	p.Fprintf(tw, "Avg delivery days\t%.1f\n", r.KPIs.AvgDeliveryDays)
	p.Fprintf(tw, "Freight share\t%.2f%%\n", r.Revenue.FreightShare)
	p.Fprintf(tw, "Dropped rows\t%d\n", stats.DroppedTotal())
	for _, reason := range sortedKeys(stats.Dropped) {
		p.Fprintf(tw, "  %s\t%d\n", reason, stats.Dropped[reason])
	}

	p.Fprintf(tw, "\nMonth\tSales\tItems\n")
	for _, m := range r.Monthly {
		p.Fprintf(tw, "%s\t%s\t%d\n", m.Month.Format("2006-01"), m.Sales.StringFixed(2), m.Items)
	}

	p.Fprintf(tw, "\nRank\tCategory\tSales\tShare\n")
	for _, c := range r.Categories {
		marker := ""
		if c.Dominant {
			marker = " *"
		}
		p.Fprintf(tw, "%d\t%s%s\t%s\t%.1f%%\n", c.Rank, c.Category, marker, c.Sales.StringFixed(2), c.Share)
	}

	p.Fprintf(tw, "\nScore\tCount\tMin\tQ1\tMedian\tQ3\tMax\n")
	for _, s := range r.Satisfaction {
		p.Fprintf(tw, "%d\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n", s.Score, s.Count, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}

	low, okLow := r.SatisfactionFor(1)
	high, okHigh := r.SatisfactionFor(5)
	if okLow && okHigh {
		p.Fprintf(tw, "\nMedian delivery: %.1f days for 1-star reviews, %.1f days for 5-star reviews\n", low.Median, high.Median)
	}

	if len(r.MapPoints) > 0 {
		p.Fprintf(tw, "\nMap points\t%d\n", len(r.MapPoints))
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
