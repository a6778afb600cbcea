package audit

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestRecordOverrideAppends(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLog(dir)
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}

	ctx := context.Background()
	t1 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	if err := log.RecordOverride(ctx, "task-a", "alice", t1); err != nil {
		t.Fatalf("RecordOverride: %v", err)
	}
	if err := log.RecordOverride(ctx, "task-b", "bob", t2); err != nil {
		t.Fatalf("RecordOverride: %v", err)
	}

	records, err := log.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if records[0].TaskID != "task-a" || records[0].PrincipalID != "alice" {
		t.Errorf("first record = %+v", records[0])
	}
	if !records[0].Timestamp.Equal(t1) {
		t.Errorf("first timestamp = %v, want %v", records[0].Timestamp, t1)
	}
	if !records[0].OverrodePrerequisites {
		t.Error("written records always mark the override")
	}
	if records[1].TaskID != "task-b" {
		t.Errorf("second record = %+v", records[1])
	}
}

func TestRecordsMissingFile(t *testing.T) {
	log, err := NewLog(t.TempDir())
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}

	records, err := log.Records()
	if err != nil {
		t.Fatalf("Records on empty trail: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestRecordsForTask(t *testing.T) {
	log, err := NewLog(t.TempDir())
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}

	ctx := context.Background()
	at := time.Now().UTC()
	for _, taskID := range []string{"task-a", "task-b", "task-a"} {
		if err := log.RecordOverride(ctx, taskID, "alice", at); err != nil {
			t.Fatalf("RecordOverride: %v", err)
		}
	}

	records, err := log.RecordsForTask("task-a")
	if err != nil {
		t.Fatalf("RecordsForTask: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("task-a has %d records, want 2", len(records))
	}
	for _, rec := range records {
		if rec.TaskID != "task-a" {
			t.Errorf("record for wrong task: %+v", rec)
		}
	}
}

func TestRecordOverrideConcurrent(t *testing.T) {
	log, err := NewLog(t.TempDir())
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}

	ctx := context.Background()
	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := log.RecordOverride(ctx, "task-a", "alice", time.Now().UTC()); err != nil {
				t.Errorf("RecordOverride: %v", err)
			}
		}()
	}
	wg.Wait()

	records, err := log.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != writers {
		t.Errorf("got %d records, want %d", len(records), writers)
	}
}

func TestFileLockTryLock(t *testing.T) {
	dir := t.TempDir()

	first := NewFileLock(dir)
	if err := first.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer func() { _ = first.Unlock() }()

	// flock is per file handle, so a second lock value contends for real.
	second := NewFileLock(dir)
	ok, err := second.TryLock()
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if ok {
		_ = second.Unlock()
		t.Fatal("TryLock acquired a lock that is already held")
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}

	ok, err = second.TryLock()
	if err != nil {
		t.Fatalf("TryLock after release: %v", err)
	}
	if !ok {
		t.Fatal("TryLock should succeed once the holder releases")
	}
	_ = second.Unlock()
}

func TestNewLogCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "audit")

	log, err := NewLog(dir)
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}
	if err := log.RecordOverride(context.Background(), "task-a", "alice", time.Now().UTC()); err != nil {
		t.Fatalf("RecordOverride: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "overrides.jsonl")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
