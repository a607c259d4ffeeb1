package docservice

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/mrsinham/accidentwizard/internal/report"
)

// Renderer turns a stored document into the bytes of a download.
type Renderer interface {
	Render(w io.Writer, doc report.Document, format report.Format) error
}

// TextRenderer writes a plain-text case summary. It only serves PDF requests,
// like the backend it stands in for.
type TextRenderer struct{}

type summaryRow struct {
	Label string
	Value string
}

type summaryView struct {
	ID          int64
	Created     string
	Rows        []summaryRow
	Narrative   string
	Witnesses   []report.Witness
	Attachments []report.AttachmentRef
}

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`ZAWIADOMIENIE O WYPADKU
Zgłoszenie nr {{.ID}}{{if .Created}} z dnia {{.Created}}{{end}}

{{range .Rows}}{{.Label}}: {{.Value}}
{{end}}
Szczegółowy opis okoliczności:
{{.Narrative}}
{{if .Witnesses}}
Świadkowie:
{{range $i, $w := .Witnesses}}{{inc $i}}. {{$w.FirstName}} {{$w.LastName}}{{if $w.City}}, {{$w.City}}{{end}}{{if $w.Phone}}, tel. {{$w.Phone}}{{end}}
{{end}}{{end}}{{if .Attachments}}
Załączniki:
{{range .Attachments}}- {{.Name}} ({{.Category}})
{{end}}{{end}}`))

func (TextRenderer) Render(w io.Writer, doc report.Document, format report.Format) error {
	if format != report.FormatPDF {
		return unsupportedFormat("render document")
	}

	view := summaryView{
		ID:          doc.ID,
		Narrative:   doc.Draft.Fields[report.FieldNarrative],
		Witnesses:   doc.Draft.Witnesses,
		Attachments: doc.Attachments,
	}
	if !doc.CreatedAt.IsZero() {
		view.Created = doc.CreatedAt.Format("2006-01-02")
	}
	for _, f := range report.FieldNames {
		v := strings.TrimSpace(doc.Draft.Fields[f])
		if v == "" || f == report.FieldNarrative {
			continue
		}
		view.Rows = append(view.Rows, summaryRow{Label: report.Label(f), Value: v})
	}
	for _, f := range report.FlagNames {
		b := doc.Draft.Flags[f]
		if b == nil {
			continue
		}
		answer := "nie"
		if *b {
			answer = "tak"
		}
		view.Rows = append(view.Rows, summaryRow{Label: report.Label(f), Value: answer})
	}
	return summaryTemplate.Execute(w, view)
}

// FileName returns the name a downloaded rendering is saved under.
func FileName(id int64, format report.Format) string {
	return fmt.Sprintf("zgloszenie-%d.%s", id, format)
}

// saveFile writes r to dir/name through a temporary file so a failed download
// never leaves a truncated file behind.
func saveFile(dir, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+name+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return path, nil
}
