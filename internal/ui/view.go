package ui

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/leapstack-labs/leapuml/internal/model"
)

// edgeGlyphs maps relationship kinds to the UML arrow drawn between class
// names in the edge list.
var edgeGlyphs = map[model.Kind]string{
	model.KindAssociation: "-->",
	model.KindAggregation: "o--",
	model.KindComposition: "*--",
	model.KindInheritance: "--|>",
	model.KindRealization: "..|>",
}

type classView struct {
	Name    string
	X       float64
	Y       float64
	Fields  []string
	Methods []string
}

type edgeView struct {
	Source      string
	Destination string
	Kind        string
	Glyph       string
}

type workspaceView struct {
	Name    string
	Classes []classView
	Edges   []edgeView
	CanUndo bool
	CanRedo bool
	Last    string
}

// buildWorkspaceView converts a snapshot into template data. Class cards are
// laid out from their stored positions; classes that were never moved stack
// in reading order below the toolbar.
func buildWorkspaceView(name string, snap model.Snapshot, canUndo, canRedo bool, last string) workspaceView {
	view := workspaceView{
		Name:    name,
		CanUndo: canUndo,
		CanRedo: canRedo,
		Last:    last,
	}

	for i, cls := range snap.Classes {
		cv := classView{Name: cls.Name, X: cls.Position.X, Y: cls.Position.Y}
		if cv.X == 0 && cv.Y == 0 {
			cv.X = float64(20 + (i%4)*220)
			cv.Y = float64(20 + (i/4)*180)
		}
		for _, f := range cls.Fields {
			cv.Fields = append(cv.Fields, fmt.Sprintf("%s: %s", f.Name, f.Type))
		}
		for _, m := range cls.Methods {
			line := m.Signature()
			if m.ReturnType != "" {
				line += " -> " + m.ReturnType
			}
			cv.Methods = append(cv.Methods, line)
		}
		view.Classes = append(view.Classes, cv)
	}

	for _, rel := range snap.Relationships {
		view.Edges = append(view.Edges, edgeView{
			Source:      rel.Source,
			Destination: rel.Destination,
			Kind:        string(rel.Kind),
			Glyph:       edgeGlyphs[rel.Kind],
		})
	}
	return view
}

var workspaceTmpl = template.Must(template.New("workspace").Parse(`<div id="workspace">
  <div class="toolbar">
    <h1>{{.Name}}</h1>
    <input type="text" data-bind-newclass placeholder="class name">
    <button data-on-click="@post('/api/classes')">Add class</button>
    <button data-on-click="@post('/api/undo')"{{if not .CanUndo}} disabled{{end}}>Undo</button>
    <button data-on-click="@post('/api/redo')"{{if not .CanRedo}} disabled{{end}}>Redo</button>
    <button data-on-click="@post('/api/save')">Save</button>
    <span class="status">{{if .Last}}last: {{.Last}}{{else}}no changes yet{{end}}</span>
  </div>
  <div class="canvas">
{{- range .Classes}}
    <section class="class-card" style="left: {{printf "%.0f" .X}}px; top: {{printf "%.0f" .Y}}px">
      <header>{{.Name}}</header>
      <ul>
{{- if .Fields}}
{{- range .Fields}}
        <li>{{.}}</li>
{{- end}}
{{- else}}
        <li class="empty">no fields</li>
{{- end}}
      </ul>
      <ul>
{{- if .Methods}}
{{- range .Methods}}
        <li>{{.}}</li>
{{- end}}
{{- else}}
        <li class="empty">no methods</li>
{{- end}}
      </ul>
    </section>
{{- end}}
  </div>
{{- if .Edges}}
  <ul class="edge-list">
{{- range .Edges}}
    <li>{{.Source}} {{.Glyph}} {{.Destination}} <span class="kind">({{.Kind}})</span></li>
{{- end}}
  </ul>
{{- end}}
</div>
`))

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="/static/app.css">
  <script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
</head>
<body class="theme-{{.Theme}}" data-on-load="@get('/updates')">
{{.WorkspaceHTML}}
</body>
</html>
`))

// renderWorkspace renders the patchable diagram fragment.
func renderWorkspace(view workspaceView) (string, error) {
	var b strings.Builder
	if err := workspaceTmpl.Execute(&b, view); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderPage renders the full editor page with the workspace inlined, so the
// first paint needs no SSE round trip.
func renderPage(title, theme string, view workspaceView) (string, error) {
	fragment, err := renderWorkspace(view)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	err = pageTmpl.Execute(&b, struct {
		Title         string
		Theme         string
		WorkspaceHTML template.HTML
	}{Title: title, Theme: theme, WorkspaceHTML: template.HTML(fragment)})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
