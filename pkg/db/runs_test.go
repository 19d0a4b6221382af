package db

import (
	"testing"
	"time"

	"github.com/tlegoff/municrawl/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestStartFinishRun(t *testing.T) {
	database := setupTestDB(t)

	startedAt := time.Now()
	runID, err := database.StartRun("all", models.ModeCrawl, 100, startedAt)
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if runID == 0 {
		t.Fatal("StartRun() returned zero run ID")
	}

	if err := database.RecordSourceResult(runID, "mairie_arretes", models.SourceStats{Attempted: 4, Succeeded: 3, Failed: 1}); err != nil {
		t.Fatalf("RecordSourceResult() error = %v", err)
	}
	if err := database.RecordSourceResult(runID, "commission_controle", models.SourceStats{Attempted: 1, Succeeded: 1}); err != nil {
		t.Fatalf("RecordSourceResult() error = %v", err)
	}

	totals := models.SourceStats{Attempted: 5, Succeeded: 4, Failed: 1}
	if err := database.FinishRun(runID, "completed", totals, startedAt.Add(time.Minute)); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err := database.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("ListRuns() returned %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.Selector != "all" || run.Mode != "crawl" || run.MaxPages != 100 {
		t.Errorf("run = %+v, parameters not stored", run)
	}
	if run.Status != "completed" {
		t.Errorf("run status = %q, want completed", run.Status)
	}
	if run.Attempted != 5 || run.Succeeded != 4 || run.Failed != 1 {
		t.Errorf("run totals = %d/%d/%d, want 5/4/1", run.Attempted, run.Succeeded, run.Failed)
	}

	sources, err := database.SourceResults(runID)
	if err != nil {
		t.Fatalf("SourceResults() error = %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("SourceResults() returned %d sources, want 2", len(sources))
	}
	if got := sources["mairie_arretes"]; got != (models.SourceStats{Attempted: 4, Succeeded: 3, Failed: 1}) {
		t.Errorf("mairie_arretes stats = %+v, want 4/3/1", got)
	}
}

func TestSourceResults_UnknownRun(t *testing.T) {
	database := setupTestDB(t)

	results, err := database.SourceResults(999)
	if err != nil {
		t.Fatalf("SourceResults() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("SourceResults(999) = %+v, want empty", results)
	}
}

func TestListRuns_NewestFirstAndLimited(t *testing.T) {
	database := setupTestDB(t)

	var lastID int64
	for i := 0; i < 5; i++ {
		runID, err := database.StartRun("all", models.ModeScrape, 0, time.Now())
		if err != nil {
			t.Fatalf("StartRun() error = %v", err)
		}
		lastID = runID
	}

	runs, err := database.ListRuns(3)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("ListRuns(3) returned %d runs, want 3", len(runs))
	}
	if runs[0].RunID != lastID {
		t.Errorf("first listed run = %d, want newest %d", runs[0].RunID, lastID)
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].RunID >= runs[i-1].RunID {
			t.Errorf("runs not newest first: %d before %d", runs[i-1].RunID, runs[i].RunID)
		}
	}
}

func TestListRuns_UnfinishedRunHasRunningStatus(t *testing.T) {
	database := setupTestDB(t)

	if _, err := database.StartRun("mairie_arretes", models.ModeScrape, 0, time.Now()); err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}

	runs, err := database.ListRuns(1)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if runs[0].Status != "running" {
		t.Errorf("status = %q, want running", runs[0].Status)
	}
}

func TestOpen_ReopenKeepsHistory(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := first.StartRun("all", models.ModeScrape, 0, time.Now()); err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	first.Close()

	second, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	runs, err := second.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("history lost across reopen: %d runs, want 1", len(runs))
	}
}
