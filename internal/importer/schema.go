// Package importer reads and writes the JSON interchange format for work
// items: a flat list where items reference each other by ref instead of id.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the top-level import/export structure.
type Document struct {
	Version int            `json:"version"`
	Project *ProjectImport `json:"project,omitempty"`
	Items   []ItemImport   `json:"items"`
}

type ProjectImport struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ItemImport is one work item. Ref is unique within the document; ParentRef
// and DependsOn name other items by ref.
type ItemImport struct {
	Ref         string   `json:"ref"`
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Status      string   `json:"status,omitempty"`
	Progress    *int     `json:"progress,omitempty"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Description string   `json:"description,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Approval    string   `json:"approval,omitempty"`
	Blockers    []string `json:"blockers,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty"`
	ParentRef   string   `json:"parent_ref,omitempty"`
	Color       string   `json:"color,omitempty"`
}

// CurrentVersion is written by Export.
const CurrentVersion = 1

// LoadFile reads, schema-checks and decodes an import file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	return Parse(data)
}

// Parse schema-checks and decodes raw JSON.
func Parse(data []byte) (*Document, error) {
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &doc, nil
}
