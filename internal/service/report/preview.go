package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"calibration-report/internal/lib/numeric"
	"calibration-report/internal/service/tolerance"
)

//go:embed templates/report.html
var templatesFS embed.FS

var previewTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"paragraphs":  paragraphs,
	"statusClass": statusClass,
	"dataURL":     dataURL,
	"qty":         quantity,
}).ParseFS(templatesFS, "templates/report.html"))

// HTML renders the document as a standalone page.
func HTML(doc *Document) ([]byte, error) {
	const op = "report.HTML"

	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func statusClass(status string) string {
	if status == tolerance.StatusConforme {
		return "ok"
	}
	return "fail"
}

// dataURL lets embedded photos through the template's URL filter. Anything that is
// not an inline image is dropped.
func dataURL(s string) template.URL {
	if !strings.HasPrefix(s, "data:image/") {
		return ""
	}
	return template.URL(s)
}

func quantity(v numeric.Value) string {
	f, ok := v.Float()
	if !ok {
		return NotAvailable
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
