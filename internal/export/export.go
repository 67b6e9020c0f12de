// Package export renders diagram snapshots into interchange formats:
// Mermaid class diagrams, PlantUML, and the native JSON/YAML encodings.
package export

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapuml/internal/model"
	"github.com/leapstack-labs/leapuml/internal/storage"
)

// Format identifies an export target.
type Format string

const (
	FormatMermaid  Format = "mermaid"
	FormatPlantUML Format = "plantuml"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats returns the supported export formats in display order.
func Formats() []Format {
	return []Format{FormatMermaid, FormatPlantUML, FormatJSON, FormatYAML}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatMermaid:
		return FormatMermaid, nil
	case FormatPlantUML:
		return FormatPlantUML, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (supported: mermaid, plantuml, json, yaml)", s)
	}
}

// Render produces the snapshot in the requested format.
func Render(snap model.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatMermaid:
		return []byte(Mermaid(snap)), nil
	case FormatPlantUML:
		return []byte(PlantUML(snap)), nil
	case FormatJSON:
		return storage.Marshal(snap, storage.FormatJSON)
	case FormatYAML:
		return storage.Marshal(snap, storage.FormatYAML)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// mermaidArrows maps relationship kinds to Mermaid class-diagram edges.
// Aggregation and composition point from the container to the part, so the
// marker sits on the source side.
var mermaidArrows = map[model.Kind]string{
	model.KindAssociation: "-->",
	model.KindAggregation: "o--",
	model.KindComposition: "*--",
	model.KindInheritance: "--|>",
	model.KindRealization: "..|>",
}

// Mermaid renders the snapshot as a Mermaid classDiagram block.
func Mermaid(snap model.Snapshot) string {
	var b strings.Builder
	b.WriteString("classDiagram\n")

	for _, cls := range snap.Classes {
		if len(cls.Fields) == 0 && len(cls.Methods) == 0 {
			fmt.Fprintf(&b, "    class %s\n", cls.Name)
			continue
		}
		fmt.Fprintf(&b, "    class %s {\n", cls.Name)
		for _, f := range cls.Fields {
			fmt.Fprintf(&b, "        +%s %s\n", f.Type, f.Name)
		}
		for _, m := range cls.Methods {
			fmt.Fprintf(&b, "        +%s(%s)", m.Name, joinParams(m.Params))
			if m.ReturnType != "" {
				fmt.Fprintf(&b, " %s", m.ReturnType)
			}
			b.WriteString("\n")
		}
		b.WriteString("    }\n")
	}

	for _, r := range snap.Relationships {
		arrow := mermaidArrows[r.Kind]
		if arrow == "" {
			arrow = "-->"
		}
		fmt.Fprintf(&b, "    %s %s %s : %s\n", r.Source, arrow, r.Destination, r.Kind)
	}
	return b.String()
}

// plantumlArrows maps relationship kinds to PlantUML edges.
var plantumlArrows = map[model.Kind]string{
	model.KindAssociation: "-->",
	model.KindAggregation: "o--",
	model.KindComposition: "*--",
	model.KindInheritance: "--|>",
	model.KindRealization: "..|>",
}

// PlantUML renders the snapshot as a @startuml/@enduml block.
func PlantUML(snap model.Snapshot) string {
	var b strings.Builder
	b.WriteString("@startuml\n")

	for _, cls := range snap.Classes {
		if len(cls.Fields) == 0 && len(cls.Methods) == 0 {
			fmt.Fprintf(&b, "class %s\n", cls.Name)
			continue
		}
		fmt.Fprintf(&b, "class %s {\n", cls.Name)
		for _, f := range cls.Fields {
			fmt.Fprintf(&b, "    +%s : %s\n", f.Name, f.Type)
		}
		for _, m := range cls.Methods {
			fmt.Fprintf(&b, "    +%s(%s)", m.Name, joinTypedParams(m.Params))
			if m.ReturnType != "" {
				fmt.Fprintf(&b, " : %s", m.ReturnType)
			}
			b.WriteString("\n")
		}
		b.WriteString("}\n")
	}

	for _, r := range snap.Relationships {
		arrow := plantumlArrows[r.Kind]
		if arrow == "" {
			arrow = "-->"
		}
		fmt.Fprintf(&b, "%s %s %s\n", r.Source, arrow, r.Destination)
	}

	b.WriteString("@enduml\n")
	return b.String()
}

func joinParams(params []model.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type
	}
	return strings.Join(parts, ", ")
}

func joinTypedParams(params []model.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " : " + p.Type
	}
	return strings.Join(parts, ", ")
}
