package record

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the record lifecycle state.
type Status string

// Record status constants. Deleted records stay in the store (soft delete)
// but are excluded from every search path.
const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusDeleted    Status = "deleted"
	StatusProcessing Status = "processing"
	StatusError      Status = "error"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted, StatusProcessing, StatusError:
		return true
	}
	return false
}

// MaxTitleLength bounds the record title.
const MaxTitleLength = 512

// Record is the unit of storage and retrieval (immutable value object).
// A relevance score is never part of a record; scores live on candidates
// produced within a single search call.
type Record struct {
	id          string
	title       string
	description string
	content     map[string]any
	tags        []string
	category    string
	status      Status
	metadata    map[string]any
	embedding   []float32
	keywords    []string
	searchText  string
	createdAt   time.Time
	updatedAt   time.Time
}

// New validates and creates a Record with a generated id and derived search
// text and keywords. Status starts as active.
func New(title, description string, content map[string]any, tags []string, category string, metadata map[string]any) (Record, error) {
	if title == "" {
		return Record{}, fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLength {
		return Record{}, fmt.Errorf("title too long (max %d chars)", MaxTitleLength)
	}

	now := time.Now().UTC()
	searchText := BuildSearchText(title, description, content)

	return Record{
		id:          uuid.NewString(),
		title:       title,
		description: description,
		content:     cloneAnyMap(content),
		tags:        cloneStrings(tags),
		category:    category,
		status:      StatusActive,
		metadata:    cloneAnyMap(metadata),
		keywords:    ExtractKeywords(searchText, MaxKeywords),
		searchText:  searchText,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(
	id, title, description string, content map[string]any, tags []string,
	category string, status Status, metadata map[string]any, embedding []float32,
	keywords []string, searchText string, createdAt, updatedAt time.Time,
) Record {
	return Record{
		id: id, title: title, description: description, content: content,
		tags: tags, category: category, status: status, metadata: metadata,
		embedding: embedding, keywords: keywords, searchText: searchText,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the record identifier.
func (r Record) ID() string { return r.id }

// Title returns the record title.
func (r Record) Title() string { return r.title }

// Description returns the record description.
func (r Record) Description() string { return r.description }

// Content returns the schema-less content mapping.
func (r Record) Content() map[string]any { return r.content }

// Tags returns the record tags.
func (r Record) Tags() []string { return r.tags }

// Category returns the record category ("" when unset).
func (r Record) Category() string { return r.category }

// Status returns the lifecycle state.
func (r Record) Status() Status { return r.status }

// Metadata returns the free-form metadata mapping.
func (r Record) Metadata() map[string]any { return r.metadata }

// Embedding returns the record vector, or nil when none was produced.
func (r Record) Embedding() []float32 { return r.embedding }

// Keywords returns the extracted search keywords.
func (r Record) Keywords() []string { return r.keywords }

// SearchText returns the combined searchable text.
func (r Record) SearchText() string { return r.searchText }

// CreatedAt returns the creation timestamp.
func (r Record) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (r Record) UpdatedAt() time.Time { return r.updatedAt }

// IsDeleted reports whether the record was soft-deleted.
func (r Record) IsDeleted() bool { return r.status == StatusDeleted }

// Patch holds the mutable fields of an update; nil pointers leave the
// current value untouched.
type Patch struct {
	Title       *string
	Description *string
	Content     *map[string]any
	Tags        *[]string
	Category    *string
	Status      *Status
	Metadata    *map[string]any
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Content == nil &&
		p.Tags == nil && p.Category == nil && p.Status == nil && p.Metadata == nil
}

// TouchesText reports whether the patch affects any searchable text field,
// which forces search text, keywords and embedding to be rebuilt.
func (p Patch) TouchesText() bool {
	return p.Title != nil || p.Description != nil || p.Content != nil
}

// Apply returns a copy with the patch applied, search text and keywords
// re-derived, and updatedAt advanced.
func (r Record) Apply(p Patch) (Record, error) {
	out := r
	if p.Title != nil {
		if *p.Title == "" {
			return Record{}, fmt.Errorf("title is required")
		}
		out.title = *p.Title
	}
	if p.Description != nil {
		out.description = *p.Description
	}
	if p.Content != nil {
		out.content = cloneAnyMap(*p.Content)
	}
	if p.Tags != nil {
		out.tags = cloneStrings(*p.Tags)
	}
	if p.Category != nil {
		out.category = *p.Category
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return Record{}, fmt.Errorf("invalid status %q", *p.Status)
		}
		out.status = *p.Status
	}
	if p.Metadata != nil {
		out.metadata = cloneAnyMap(*p.Metadata)
	}

	if p.TouchesText() {
		out.searchText = BuildSearchText(out.title, out.description, out.content)
		out.keywords = ExtractKeywords(out.searchText, MaxKeywords)
		out.embedding = nil // stale vector; the write path re-embeds
	}

	out.updatedAt = time.Now().UTC()
	return out, nil
}

// MarkDeleted returns a soft-deleted copy with updatedAt advanced.
func (r Record) MarkDeleted() Record {
	out := r
	out.status = StatusDeleted
	out.updatedAt = time.Now().UTC()
	return out
}

// WithEmbedding returns a copy carrying the given vector.
func (r Record) WithEmbedding(v []float32) Record {
	out := r
	out.embedding = v
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
