package dataseek

import (
	"context"

	domrec "github.com/morainelabs/dataseek/internal/domain/record"
	recorduc "github.com/morainelabs/dataseek/internal/usecase/record"
)

// Record is a stored semi-structured record.
type Record = domrec.Record

// RecordInput carries the fields for record creation.
type RecordInput = recorduc.Input

// RecordPatch is a partial record update. Nil fields are left unchanged.
type RecordPatch = domrec.Patch

// RecordPage is one page of a record listing.
type RecordPage = recorduc.Page

// BulkResult reports the outcome for one record of a bulk insert.
type BulkResult = recorduc.BulkResult

// CreateRecord validates, vectorizes and stores a new record.
func (c *Client) CreateRecord(ctx context.Context, in RecordInput) (Record, error) {
	return c.recordSvc.Create(ctx, in)
}

// GetRecord fetches a record by id. Soft-deleted records read as missing.
func (c *Client) GetRecord(ctx context.Context, id string) (Record, error) {
	return c.recordSvc.Get(ctx, id)
}

// UpdateRecord applies a partial update. Text changes trigger re-vectorization.
func (c *Client) UpdateRecord(ctx context.Context, id string, p RecordPatch) (Record, error) {
	return c.recordSvc.Update(ctx, id, p)
}

// DeleteRecord soft-deletes a record, excluding it from search.
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	return c.recordSvc.Delete(ctx, id)
}

// ListRecords returns a page of active records.
func (c *Client) ListRecords(ctx context.Context, offset, limit int) (RecordPage, error) {
	return c.recordSvc.List(ctx, offset, limit)
}

// BulkInsert ingests a batch of records, vectorizing them concurrently.
// Per-item outcomes are returned in input order.
func (c *Client) BulkInsert(ctx context.Context, items []RecordInput) []BulkResult {
	return c.bulkSvc.Insert(ctx, items)
}
