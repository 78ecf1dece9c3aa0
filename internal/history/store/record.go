package store

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/keshon/ghist/internal/history/entry"
)

// IndexFile is the name of the index record inside a snapshot directory.
const IndexFile = "entries.json"

// IndexRecord is the editor's per-directory metadata.
type IndexRecord struct {
	Version  int           `json:"version"`
	Resource string        `json:"resource"`
	Entries  []RecordEntry `json:"entries"`
}

// RecordEntry declares one snapshot blob.
type RecordEntry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Source    string `json:"source,omitempty"`
}

// ParseIndexRecord decodes an index record. Comments and trailing commas are
// tolerated. A record without a resource or with an id-less entry is
// reported as entry.ErrIndexCorrupt.
func ParseIndexRecord(data []byte) (*IndexRecord, error) {
	var rec IndexRecord
	if err := json.Unmarshal(jsonc.ToJSON(data), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", entry.ErrIndexCorrupt, err)
	}
	if rec.Resource == "" {
		return nil, fmt.Errorf("%w: missing resource", entry.ErrIndexCorrupt)
	}
	for i, e := range rec.Entries {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", entry.ErrIndexCorrupt, i)
		}
	}
	return &rec, nil
}

// Declares reports whether the record lists the blob id.
func (r *IndexRecord) Declares(id string) bool {
	for _, e := range r.Entries {
		if e.ID == id {
			return true
		}
	}
	return false
}
