package record

import (
	"encoding/json"
	"fmt"
	"time"

	rec "github.com/morainelabs/dataseek/internal/domain/record"
)

// doc is the JSON document shape stored under dataseek:record:<id>. The
// *_ts fields duplicate the timestamps as unix seconds for the NUMERIC
// index fields.
type doc struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Content     map[string]any `json:"content,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Category    string         `json:"category,omitempty"`
	Status      string         `json:"status"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Embedding   []float32      `json:"embedding,omitempty"`
	Keywords    []string       `json:"keywords,omitempty"`
	SearchText  string         `json:"search_text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CreatedTS   int64          `json:"created_ts"`
	UpdatedTS   int64          `json:"updated_ts"`
}

func buildDoc(r *rec.Record) doc {
	return doc{
		ID:          r.ID(),
		Title:       r.Title(),
		Description: r.Description(),
		Content:     r.Content(),
		Tags:        r.Tags(),
		Category:    r.Category(),
		Status:      string(r.Status()),
		Metadata:    r.Metadata(),
		Embedding:   r.Embedding(),
		Keywords:    r.Keywords(),
		SearchText:  r.SearchText(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
		CreatedTS:   r.CreatedAt().Unix(),
		UpdatedTS:   r.UpdatedAt().Unix(),
	}
}

func (d *doc) toRecord() rec.Record {
	return rec.Reconstruct(
		d.ID, d.Title, d.Description, d.Content, d.Tags,
		d.Category, rec.Status(d.Status), d.Metadata, d.Embedding,
		d.Keywords, d.SearchText, d.CreatedAt, d.UpdatedAt,
	)
}

// DecodeDoc parses a stored JSON document into a domain Record. JSON.GET
// with a "$" path wraps the document in a one-element array; both shapes
// are accepted.
func DecodeDoc(data []byte) (rec.Record, error) {
	var d doc
	if err := json.Unmarshal(data, &d); err == nil && d.ID != "" {
		return d.toRecord(), nil
	}

	var docs []doc
	if err := json.Unmarshal(data, &docs); err != nil {
		return rec.Record{}, fmt.Errorf("unmarshal record doc: %w", err)
	}
	if len(docs) == 0 {
		return rec.Record{}, fmt.Errorf("empty record doc")
	}
	return docs[0].toRecord(), nil
}
