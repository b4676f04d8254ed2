package report

import (
	"fmt"
	"time"

	"github.com/tdoa-platform/core/internal/cache"
	"github.com/tdoa-platform/core/internal/database"
)

// ParameterRequirement marks a template parameter as mandatory or
// optional in ReportOptions.CustomParameters.
type ParameterRequirement string

const (
	ParameterRequired ParameterRequirement = "required"
	ParameterOptional ParameterRequirement = "optional"
)

// Format names a report output format.
type Format string

const (
	FormatCSV  Format = "CSV"
	FormatJSON Format = "JSON"
	FormatKML  Format = "KML"
	FormatPDF  Format = "PDF"
)

// ReportTemplate describes a named, reusable report shape.
type ReportTemplate struct {
	Name             string
	Description      string
	Sections         []string
	Parameters       map[string]ParameterRequirement
	SupportedFormats []Format
}

// ReportOptions parameterizes a single generate_report invocation.
type ReportOptions struct {
	Format           Format
	TimeRange        database.TimeRange
	NodeID           string
	TrackID          string
	HasTrackID       bool
	FreqRangeMin     float64
	FreqRangeMax     float64
	HasFreqRange     bool
	CustomParameters map[string]string
}

// ReportSchedule drives process_due_reports.
type ReportSchedule struct {
	ReportName string
	NextRun    time.Time
	Interval   time.Duration
	Enabled    bool
	Format     Format
	OutputPath string
	Parameters map[string]string
}

// builtinTemplates are the report shapes this binary ships; operators do
// not currently define custom templates.
var builtinTemplates = map[string]ReportTemplate{
	"signal_overview": {
		Name:             "signal_overview",
		Description:      "Signal detection summary over a time range",
		Sections:         []string{"signal_summary", "event_summary"},
		Parameters:       map[string]ParameterRequirement{},
		SupportedFormats: []Format{FormatCSV, FormatJSON, FormatKML},
	},
	"track_report": {
		Name:             "track_report",
		Description:      "Per-track signal and geolocation history",
		Sections:         []string{"tracking_summary", "geolocation_summary"},
		Parameters:       map[string]ParameterRequirement{"track_id": ParameterRequired},
		SupportedFormats: []Format{FormatCSV, FormatJSON},
	},
	"spectrum_survey": {
		Name:             "spectrum_survey",
		Description:      "Frequency occupancy over a band",
		Sections:         []string{"frequency_analysis", "signal_summary"},
		Parameters:       map[string]ParameterRequirement{"freq_range": ParameterRequired},
		SupportedFormats: []Format{FormatCSV, FormatJSON, FormatKML},
	},
	"full_brief": {
		Name:             "full_brief",
		Description:      "Comprehensive operational brief",
		Sections:         []string{"signal_summary", "geolocation_summary", "event_summary"},
		Parameters:       map[string]ParameterRequirement{},
		SupportedFormats: []Format{FormatCSV, FormatJSON, FormatKML},
	},
}

// Registry resolves template names through an LFU cache so repeatedly
// scheduled reports avoid re-copying the definition on every tick; the
// underlying set is fixed at startup, so the cache only ever serves hits
// after the first lookup of each name.
type Registry struct {
	cache *cache.LFUCacheGeneric[ReportTemplate]
}

// NewRegistry builds a registry over the built-in templates.
func NewRegistry() *Registry {
	return &Registry{cache: cache.NewLFUCacheGeneric[ReportTemplate](len(builtinTemplates), 0)}
}

// Resolve returns the named template, populating the LFU cache on first
// lookup.
func (r *Registry) Resolve(name string) (ReportTemplate, error) {
	if t, ok := r.cache.Get(name); ok {
		return t, nil
	}
	t, ok := builtinTemplates[name]
	if !ok {
		return ReportTemplate{}, fmt.Errorf("report: unknown template %q", name)
	}
	r.cache.Set(name, t)
	return t, nil
}

func (t ReportTemplate) supportsFormat(f Format) bool {
	for _, sf := range t.SupportedFormats {
		if sf == f {
			return true
		}
	}
	return false
}

func (t ReportTemplate) missingRequiredParameter(opts ReportOptions) (string, bool) {
	for name, req := range t.Parameters {
		if req != ParameterRequired {
			continue
		}
		if _, ok := opts.CustomParameters[name]; !ok {
			return name, true
		}
	}
	return "", false
}
