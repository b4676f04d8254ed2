package report

import (
	"errors"
	"fmt"
	"os"
)

// ErrPDFUnsupported is returned by Export when Format is FormatPDF; callers
// must not advertise PDF as an available export.
var ErrPDFUnsupported = errors.New("report: PDF export is not supported")

const kmlDocumentName = "Signal Detection Report"

// Export writes reportText to destPath in the given format. CSV and JSON
// write the text verbatim; KML wraps it in a fixed document envelope; PDF
// always fails.
func Export(format Format, reportText, destPath string) error {
	var payload string
	switch format {
	case FormatCSV, FormatJSON:
		payload = reportText
	case FormatKML:
		payload = wrapKML(reportText)
	case FormatPDF:
		return ErrPDFUnsupported
	default:
		return fmt.Errorf("report: unknown export format %q", format)
	}

	if err := os.WriteFile(destPath, []byte(payload), 0o644); err != nil {
		return fmt.Errorf("report: export to %q: %w", destPath, err)
	}
	return nil
}

func wrapKML(body string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>%s</name>
    <description><![CDATA[%s]]></description>
  </Document>
</kml>
`, kmlDocumentName, body)
}
