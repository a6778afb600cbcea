// Package audit persists the override trail: one record for every task
// completion that bypassed incomplete prerequisites. The log is an
// append-only JSONL file guarded by a file lock, so multiple processes
// sharing a data directory cannot interleave partial records.
//
// In the full product the history service consumes override records
// through the engine's AuditSink interface; this package is the standalone
// implementation used by the CLI and tests.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const logFileName = "overrides.jsonl"

// Record is a single override entry. OverrodePrerequisites is always true
// for written records; it is kept explicit so exported rows are
// self-describing.
type Record struct {
	TaskID                string    `json:"task_id"`
	PrincipalID           string    `json:"principal_id"`
	OverrodePrerequisites bool      `json:"overrode_prerequisites"`
	Timestamp             time.Time `json:"timestamp"`
}

// Log is a file-backed audit sink. All methods are safe for concurrent
// use across processes via the file lock.
type Log struct {
	dir string
}

// NewLog creates a Log writing to {dir}/overrides.jsonl, creating dir if
// needed.
func NewLog(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	return &Log{dir: dir}, nil
}

// RecordOverride appends one override record. Implements
// depgraph.AuditSink.
func (l *Log) RecordOverride(ctx context.Context, taskID, principalID string, at time.Time) error {
	fl := NewFileLock(l.dir)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("acquire audit lock: %w", err)
	}
	defer func() { _ = fl.Unlock() }()

	data, err := json.Marshal(Record{
		TaskID:                taskID,
		PrincipalID:           principalID,
		OverrodePrerequisites: true,
		Timestamp:             at,
	})
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	f, err := os.OpenFile(l.path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return f.Sync()
}

// Records reads the full override trail in append order. A missing log
// file is an empty trail, not an error.
func (l *Log) Records() ([]Record, error) {
	fl := NewFileLock(l.dir)
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("acquire audit lock: %w", err)
	}
	defer func() { _ = fl.Unlock() }()

	f, err := os.Open(l.path())
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer func() { _ = f.Close() }()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse audit record: %w", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return records, nil
}

// RecordsForTask filters the trail to a single task, preserving order.
func (l *Log) RecordsForTask(taskID string) ([]Record, error) {
	all, err := l.Records()
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, rec := range all {
		if rec.TaskID == taskID {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (l *Log) path() string {
	return filepath.Join(l.dir, logFileName)
}
