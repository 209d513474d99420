package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"staffchat/internal/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RowErrorLimit caps how many per-row failures are echoed back verbatim.
const RowErrorLimit = 10

type RowError struct {
	RowIndex int    `json:"row_index"`
	Error    string `json:"error"`
}

// Report is the upload response body.
type Report struct {
	OK           bool              `json:"ok"`
	RowsIngested int               `json:"rows_ingested"`
	RowsFailed   int               `json:"rows_failed"`
	Note         string            `json:"note,omitempty"`
	ColumnsSeen  []string          `json:"columns_seen"`
	ResolvedMap  map[string]string `json:"resolved_map"`
	SampleErrors []RowError        `json:"sample_errors"`
}

// MissingColumnsError aborts an upload before any row is touched.
type MissingColumnsError struct {
	RequiredMissing []string          `json:"required_missing"`
	ColumnsSeen     []string          `json:"columns_seen"`
	Resolved        map[string]string `json:"resolved"`
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %v", e.RequiredMissing)
}

// Ingestor runs the upload pipeline: read the whole table, resolve columns,
// upsert row by row inside one transaction, commit once at the end.
type Ingestor struct {
	db *gorm.DB
}

func NewIngestor(db *gorm.DB) *Ingestor { return &Ingestor{db: db} }

func (ing *Ingestor) IngestResources(ctx context.Context, filename string, r io.Reader, conversationID, userID string) (*Report, error) {
	return ingestTable(ctx, ing.db, filename, r, conversationID, userID,
		ResourceFields, ResourceRequired,
		func(row, resolved map[string]string) idRecord {
			return MapResource(row, resolved, conversationID, userID)
		})
}

func (ing *Ingestor) IngestProjects(ctx context.Context, filename string, r io.Reader, conversationID, userID string) (*Report, error) {
	return ingestTable(ctx, ing.db, filename, r, conversationID, userID,
		ProjectFields, ProjectRequired,
		func(row, resolved map[string]string) idRecord {
			return MapProject(row, resolved, conversationID, userID)
		})
}

// idRecord is any entity addressed by a string identifier.
type idRecord interface {
	Identifier() string
}

func ingestTable(
	ctx context.Context,
	db *gorm.DB,
	filename string,
	r io.Reader,
	conversationID, userID string,
	fields []FieldSpec,
	required []string,
	mapRow func(row, resolved map[string]string) idRecord,
) (*Report, error) {
	table, err := ReadTable(filename, r)
	if err != nil {
		return nil, err
	}
	if table.Empty() {
		logger.Warn("ingest: no rows found", "file", filename, "conversation", conversationID)
		return &Report{
			OK:           true,
			Note:         "No non-empty sheets",
			ColumnsSeen:  []string{},
			ResolvedMap:  map[string]string{},
			SampleErrors: []RowError{},
		}, nil
	}

	resolved, _ := Resolve(table.Headers, fields)
	logger.Info("ingest: columns resolved", "file", filename, "columns", table.Headers, "resolved", resolved)

	if missing := MissingRequired(resolved, required); len(missing) > 0 {
		logger.Error("ingest: missing required columns", "file", filename, "missing", missing)
		return nil, &MissingColumnsError{
			RequiredMissing: missing,
			ColumnsSeen:     table.Headers,
			Resolved:        resolved,
		}
	}

	report := &Report{OK: true, ColumnsSeen: table.Headers, ResolvedMap: resolved, SampleErrors: []RowError{}}

	// Phase 1: attempt every row inside one open transaction; a row failure
	// is counted and sampled, never aborts the batch. Phase 2: one commit,
	// and only a commit failure rolls the whole batch back.
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin ingest tx: %w", tx.Error)
	}

	for idx, row := range table.Rows {
		rec := mapRow(row, resolved)
		if err := upsert(tx, rec); err != nil {
			report.RowsFailed++
			if len(report.SampleErrors) < RowErrorLimit {
				report.SampleErrors = append(report.SampleErrors, RowError{RowIndex: idx, Error: err.Error()})
			}
			logger.Warn("ingest: row failed", "row", idx, "err", err)
			continue
		}
		report.RowsIngested++
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		logger.Error("ingest: commit failed, rolled back", "file", filename, "err", err)
		return nil, fmt.Errorf("commit ingest batch: %w", err)
	}

	logger.Info("ingest: done", "file", filename, "ok", report.RowsIngested, "failed", report.RowsFailed)
	return report, nil
}

// upsert inserts or overwrites by primary key. The statement executes
// immediately so constraint violations surface on the failing row.
func upsert(tx *gorm.DB, rec idRecord) error {
	if rec.Identifier() == "" {
		return errors.New("identifier is empty")
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(rec).Error
}
