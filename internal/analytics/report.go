package analytics

import (
	"github.com/jonboulle/clockwork"

	"olistcli/internal/config"
	"olistcli/internal/dataprocessing"
	"olistcli/pkg/contracts/domain"
)

// ErrNoData is returned when there is no analytical table to report on.
var ErrNoData = dataprocessing.ErrNoData

// Options tunes Generate
type Options struct {
	TopCategories       int
	HighlightCategories int
	SatisfactionMaxDays int
	IncludeMapPoints    bool
	RunID               string
	Clock               clockwork.Clock
}

// OptionsFromConfig builds Options from the report configuration
func OptionsFromConfig(cfg config.ReportConfig) Options {
	return Options{
		TopCategories:       cfg.TopCategories,
		HighlightCategories: cfg.HighlightCategories,
		SatisfactionMaxDays: cfg.SatisfactionMaxDays,
	}
}

func (o Options) withDefaults() Options {
	if o.TopCategories <= 0 {
		o.TopCategories = config.DefaultTopCategories
	}
	if o.HighlightCategories < 0 {
		o.HighlightCategories = 0
	}
	if o.SatisfactionMaxDays <= 0 {
		o.SatisfactionMaxDays = config.DefaultSatisfactionMaxDays
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	return o
}

// Generate computes every report view from table. A nil table yields ErrNoData;
// an empty table yields a report of zeros.
func Generate(table *dataprocessing.Table, opts Options) (*domain.Report, error) {
	if table == nil {
		return nil, ErrNoData
	}
	opts = opts.withDefaults()
	rows := table.Rows

	report := &domain.Report{
		GeneratedAt:  opts.Clock.Now(),
		RunID:        opts.RunID,
		Rows:         len(rows),
		KPIs:         ComputeKPIs(rows),
		Monthly:      MonthlyTrend(rows),
		Revenue:      Revenue(rows),
		Categories:   TopCategories(rows, opts.TopCategories, opts.HighlightCategories),
		Satisfaction: SatisfactionByScore(rows, opts.SatisfactionMaxDays),
	}
	if opts.IncludeMapPoints {
		report.MapPoints = MapPoints(rows)
	}
	return report, nil
}
