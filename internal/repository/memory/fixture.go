package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"studyroom-be/pkg/store"

	"gopkg.in/yaml.v3"
)

// LoadFixture reads a list of documents from a .json, .yaml or .yml file.
// Chunks without a document id or title inherit them from their document.
func LoadFixture(path string) ([]store.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}

	var docs []store.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &docs)
	default:
		err = json.Unmarshal(raw, &docs)
	}
	if err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}

	for i := range docs {
		d := &docs[i]
		if d.ID == "" || d.RoomID == "" {
			return nil, fmt.Errorf("fixture %s: document %d needs id and room_id", path, i)
		}
		for j := range d.Chunks {
			c := &d.Chunks[j]
			if c.DocumentID == "" {
				c.DocumentID = d.ID
			}
			if c.DocumentTitle == "" {
				c.DocumentTitle = d.Title
			}
			if c.ID == "" {
				c.ID = fmt.Sprintf("%s-%d", d.ID, c.Index)
			}
		}
	}
	return docs, nil
}
