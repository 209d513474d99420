package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"staffchat/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Resource{}, &model.Project{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

const resourceCSV = "Resource ID,Name,Role,Skills,Proficiency,Capacity,Available From,Cost per hour (₹)\n" +
	"R1,Asha,Backend,\"Go, Python\",Expert,40,15-01-2024,\"1,500.50\"\n" +
	"R2,Vik,Data,SQL; Spark,advanced,,2024/02/01,900\n"

func TestIngestResources(t *testing.T) {
	db := testDB(t)
	ing := NewIngestor(db)

	report, err := ing.IngestResources(context.Background(), "team.csv", strings.NewReader(resourceCSV), "conv1", "demo")
	if err != nil {
		t.Fatalf("IngestResources: %v", err)
	}
	if !report.OK || report.RowsIngested != 2 || report.RowsFailed != 0 {
		t.Fatalf("report = %+v, want 2 ingested, 0 failed", report)
	}
	if report.ResolvedMap["resource_id"] != "resource_id" || report.ResolvedMap["skills"] != "skills" {
		t.Errorf("resolved map = %v", report.ResolvedMap)
	}

	var r model.Resource
	if err := db.First(&r, "resource_id = ?", "R1").Error; err != nil {
		t.Fatalf("load R1: %v", err)
	}
	if r.Name != "Asha" || r.Role != "Backend" {
		t.Errorf("R1 = %+v", r)
	}
	if len(r.Skills) != 2 || r.Skills[0] != "Go" || r.Skills[1] != "Python" {
		t.Errorf("R1 skills = %v", r.Skills)
	}
	if r.ProficiencyLevel == nil || *r.ProficiencyLevel != model.ProficiencyExpert {
		t.Errorf("R1 proficiency = %v", r.ProficiencyLevel)
	}
	if r.CapacityHrsPerWeek == nil || *r.CapacityHrsPerWeek != 40 {
		t.Errorf("R1 capacity = %v", r.CapacityHrsPerWeek)
	}
	if r.AvailabilityDate == nil || r.AvailabilityDate.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("R1 availability = %v", r.AvailabilityDate)
	}
	if r.CostPerHourINR == nil || *r.CostPerHourINR != 1500.50 {
		t.Errorf("R1 cost = %v", r.CostPerHourINR)
	}
	if r.ConversationID != "conv1" || r.UserID != "demo" {
		t.Errorf("R1 scope = %s/%s", r.ConversationID, r.UserID)
	}

	var r2 model.Resource
	if err := db.First(&r2, "resource_id = ?", "R2").Error; err != nil {
		t.Fatalf("load R2: %v", err)
	}
	if r2.ProficiencyLevel == nil || *r2.ProficiencyLevel != model.ProficiencyAdvanced {
		t.Errorf("case-insensitive enum failed: %v", r2.ProficiencyLevel)
	}
	if r2.CapacityHrsPerWeek != nil {
		t.Errorf("blank capacity should be absent, got %v", r2.CapacityHrsPerWeek)
	}
}

func TestIngestMissingRequiredColumns(t *testing.T) {
	db := testDB(t)
	ing := NewIngestor(db)

	csv := "Resource ID,Name\nR1,Asha\n"
	_, err := ing.IngestResources(context.Background(), "team.csv", strings.NewReader(csv), "conv1", "demo")
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingColumnsError, got %v", err)
	}
	want := []string{"role", "skills"}
	if len(missing.RequiredMissing) != 2 || missing.RequiredMissing[0] != want[0] || missing.RequiredMissing[1] != want[1] {
		t.Errorf("required_missing = %v, want %v", missing.RequiredMissing, want)
	}

	var count int64
	db.Model(&model.Resource{}).Count(&count)
	if count != 0 {
		t.Errorf("aborted ingest wrote %d rows, want 0", count)
	}
}

func TestIngestIdempotent(t *testing.T) {
	db := testDB(t)
	ing := NewIngestor(db)

	for i := 0; i < 2; i++ {
		report, err := ing.IngestResources(context.Background(), "team.csv", strings.NewReader(resourceCSV), "conv1", "demo")
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if report.RowsIngested != 2 || report.RowsFailed != 0 {
			t.Fatalf("run %d report = %+v", i, report)
		}
	}

	var count int64
	db.Model(&model.Resource{}).Count(&count)
	if count != 2 {
		t.Errorf("row count after re-ingest = %d, want 2", count)
	}
}

func TestIngestUpsertOverwrites(t *testing.T) {
	db := testDB(t)
	ing := NewIngestor(db)

	first := "resource_id,name,role,skills\nR1,Asha,Backend,Go\n"
	if _, err := ing.IngestResources(context.Background(), "a.csv", strings.NewReader(first), "conv1", "demo"); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	second := "resource_id,name,role,skills\nR1,Asha Rao,Platform,\"Go, Rust\"\n"
	report, err := ing.IngestResources(context.Background(), "b.csv", strings.NewReader(second), "conv1", "demo")
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if report.RowsIngested != 1 || report.RowsFailed != 0 {
		t.Fatalf("report = %+v", report)
	}

	var r model.Resource
	if err := db.First(&r, "resource_id = ?", "R1").Error; err != nil {
		t.Fatalf("load R1: %v", err)
	}
	if r.Name != "Asha Rao" || r.Role != "Platform" || len(r.Skills) != 2 {
		t.Errorf("overwrite failed: %+v", r)
	}
	var count int64
	db.Model(&model.Resource{}).Count(&count)
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}
}

func TestIngestEmptyFile(t *testing.T) {
	db := testDB(t)
	ing := NewIngestor(db)

	report, err := ing.IngestResources(context.Background(), "empty.csv", strings.NewReader(""), "conv1", "demo")
	if err != nil {
		t.Fatalf("IngestResources: %v", err)
	}
	if !report.OK || report.RowsIngested != 0 || report.Note == "" {
		t.Errorf("report = %+v, want zero-row success with note", report)
	}
}

func TestIngestRowFailureDoesNotAbortBatch(t *testing.T) {
	db := testDB(t)
	ing := NewIngestor(db)

	// Middle row has a blank identifier and must fail alone.
	csv := "resource_id,name,role,skills\nR1,Asha,Backend,Go\n,Ghost,None,X\nR3,Vik,Data,SQL\n"
	report, err := ing.IngestResources(context.Background(), "team.csv", strings.NewReader(csv), "conv1", "demo")
	if err != nil {
		t.Fatalf("IngestResources: %v", err)
	}
	if report.RowsIngested != 2 || report.RowsFailed != 1 {
		t.Fatalf("report = %+v, want 2 ok / 1 failed", report)
	}
	if len(report.SampleErrors) != 1 || report.SampleErrors[0].RowIndex != 1 {
		t.Errorf("sample errors = %v", report.SampleErrors)
	}
}

func TestReportAlwaysCarriesSamplesAndResolved(t *testing.T) {
	ing := NewIngestor(testDB(t))

	report, err := ing.IngestResources(context.Background(), "team.csv", strings.NewReader(resourceCSV), "conv1", "demo")
	if err != nil {
		t.Fatalf("IngestResources: %v", err)
	}
	data, _ := json.Marshal(report)
	for _, want := range []string{`"sample_errors":[]`, `"resolved_map":{`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("clean report JSON missing %s: %s", want, data)
		}
	}

	empty, err := ing.IngestResources(context.Background(), "empty.csv", strings.NewReader(""), "conv1", "demo")
	if err != nil {
		t.Fatalf("empty ingest: %v", err)
	}
	data, _ = json.Marshal(empty)
	for _, want := range []string{`"sample_errors":[]`, `"resolved_map":{}`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("empty-file report JSON missing %s: %s", want, data)
		}
	}
}

// commitFailPool hands out transactions whose Commit always fails; the
// statements inside the transaction still hit the real database.
type commitFailPool struct {
	*sql.DB
}

func (p *commitFailPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	tx, err := p.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &commitFailTx{Tx: tx}, nil
}

type commitFailTx struct {
	*sql.Tx
}

func (t *commitFailTx) Commit() error {
	t.Tx.Rollback()
	return errors.New("disk I/O error")
}

func TestIngestCommitFailureRollsBack(t *testing.T) {
	db := testDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	broken, err := gorm.Open(sqlite.Dialector{Conn: &commitFailPool{DB: sqlDB}}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open wrapped db: %v", err)
	}

	ing := NewIngestor(broken)
	_, err = ing.IngestResources(context.Background(), "team.csv", strings.NewReader(resourceCSV), "conv1", "demo")
	if err == nil || !strings.Contains(err.Error(), "commit ingest batch") {
		t.Fatalf("err = %v, want commit failure", err)
	}

	var count int64
	db.Model(&model.Resource{}).Count(&count)
	if count != 0 {
		t.Errorf("rows persisted after failed commit: %d", count)
	}
}

func TestIngestProjects(t *testing.T) {
	db := testDB(t)
	ing := NewIngestor(db)

	csv := "Project ID,Project Name,Summary,Required Skills,Priority,Budget (₹),Start Date,End Date\n" +
		"P1,Apollo,Migrate billing,\"Go, SQL\",High,\"2,000,000\",2024-02-01,01/06/2024\n"
	report, err := ing.IngestProjects(context.Background(), "projects.csv", strings.NewReader(csv), "conv1", "demo")
	if err != nil {
		t.Fatalf("IngestProjects: %v", err)
	}
	if report.RowsIngested != 1 || report.RowsFailed != 0 {
		t.Fatalf("report = %+v", report)
	}

	var p model.Project
	if err := db.First(&p, "project_id = ?", "P1").Error; err != nil {
		t.Fatalf("load P1: %v", err)
	}
	if p.Priority == nil || *p.Priority != model.PriorityHigh {
		t.Errorf("priority = %v", p.Priority)
	}
	if p.BudgetINR == nil || *p.BudgetINR != 2000000 {
		t.Errorf("budget = %v", p.BudgetINR)
	}
	if p.EndDate == nil || p.EndDate.Format("2006-01-02") != "2024-06-01" {
		t.Errorf("end date = %v (day-first expected)", p.EndDate)
	}
}
