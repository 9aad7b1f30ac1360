package export

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/list.html.tmpl
var templateFS embed.FS

var listTemplate = template.Must(template.ParseFS(templateFS, "templates/list.html.tmpl"))

// HTML writes a self-contained printable page. html/template escapes every
// user-supplied field for the context it lands in.
type HTML struct{}

type htmlRow struct {
	Index       int
	Name        string
	Quantity    int
	Unit        string
	Preparation string
}

type htmlData struct {
	Title     string
	Created   string
	Generated string
	Count     int
	Footer    string
	Rows      []htmlRow
}

func (h *HTML) Name() string { return StrategyHTML }

func (h *HTML) Render(_ context.Context, doc Document) (Artifact, error) {
	data := htmlData{
		Title:     doc.Title,
		Created:   doc.CreatedLabel(),
		Generated: doc.Generated.Format("02 Jan 2006 15:04"),
		Count:     len(doc.Items),
		Footer:    Footer,
		Rows:      make([]htmlRow, len(doc.Items)),
	}
	for i, it := range doc.Items {
		data.Rows[i] = htmlRow{
			Index:       i + 1,
			Name:        it.Name,
			Quantity:    it.Quantity,
			Unit:        string(it.Unit),
			Preparation: it.PreparationOrDash(),
		}
	}

	var buf bytes.Buffer
	if err := listTemplate.Execute(&buf, data); err != nil {
		return Artifact{}, fmt.Errorf("execute template: %w", err)
	}
	return Artifact{
		FileName:  FileName(doc.Title, "html"),
		MediaType: mediaHTML,
		Strategy:  StrategyHTML,
		Data:      buf.Bytes(),
	}, nil
}
