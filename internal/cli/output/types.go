package output

// JSON output shapes shared by commands. Kept here so the structure of
// machine-readable output is versioned in one place.

// ListOutput is the JSON payload of the list command.
type ListOutput struct {
	Diagrams []DiagramInfo `json:"diagrams"`
	Summary  ListSummary   `json:"summary"`
}

// DiagramInfo describes one registered diagram.
type DiagramInfo struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Format        string `json:"format"`
	Classes       int    `json:"classes"`
	Relationships int    `json:"relationships"`
	UpdatedAt     string `json:"updated_at"`
	LastOpenedAt  string `json:"last_opened_at,omitempty"`
	OpenCount     int    `json:"open_count"`
}

// ListSummary aggregates the listing.
type ListSummary struct {
	TotalDiagrams      int `json:"total_diagrams"`
	TotalClasses       int `json:"total_classes"`
	TotalRelationships int `json:"total_relationships"`
}

// ShowOutput is the JSON payload of the show command.
type ShowOutput struct {
	Name          string             `json:"name"`
	Path          string             `json:"path"`
	Classes       []ShowClass        `json:"classes"`
	Relationships []ShowRelationship `json:"relationships"`
}

// ShowClass describes one class in show output.
type ShowClass struct {
	Name    string   `json:"name"`
	Fields  []string `json:"fields"`
	Methods []string `json:"methods"`
}

// ShowRelationship describes one relationship in show output.
type ShowRelationship struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Kind        string `json:"kind"`
}
