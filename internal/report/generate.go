package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/tdoa-platform/core/internal/query"
)

// Engine ties a template registry to the query façade that feeds its
// section generators.
type Engine struct {
	registry *Registry
	query    *query.Facade
}

// NewEngine builds a report engine over q.
func NewEngine(q *query.Facade) *Engine {
	return &Engine{registry: NewRegistry(), query: q}
}

// GenerateReport resolves templateName, validates opts against it, runs
// every section generator in template order, and joins their output with
// single newlines before handing the result to formatReportData.
func (e *Engine) GenerateReport(ctx context.Context, templateName string, opts ReportOptions) (string, error) {
	tmpl, err := e.registry.Resolve(templateName)
	if err != nil {
		return "", err
	}
	if !tmpl.supportsFormat(opts.Format) {
		return "", fmt.Errorf("report: template %q does not support format %s", templateName, opts.Format)
	}
	if missing, ok := tmpl.missingRequiredParameter(opts); ok {
		return "", fmt.Errorf("report: template %q missing required parameter %q", templateName, missing)
	}

	sections := make([]string, 0, len(tmpl.Sections))
	for _, name := range tmpl.Sections {
		gen, ok := sectionGenerators[name]
		if !ok {
			return "", fmt.Errorf("report: unknown section %q in template %q", name, templateName)
		}
		text, err := gen(ctx, e.query, opts)
		if err != nil {
			return "", err
		}
		sections = append(sections, text)
	}

	return formatReportData(strings.Join(sections, "\n"), opts.Format)
}

// formatReportData is currently a pass-through for every format; the
// contract exists so a future format can post-process the joined section
// text without changing GenerateReport's signature.
func formatReportData(data string, format Format) (string, error) {
	return data, nil
}
