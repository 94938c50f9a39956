// Package outbox is the reference persistence sink: an append-only JSONL
// file of scan, checklist and exit records. The core emits structured
// results and this package writes them; swapping in a database sink is a
// caller concern.
package outbox

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tradecraft-io/spreadscan/internal/exits"
	"github.com/tradecraft-io/spreadscan/internal/gate"
	"github.com/tradecraft-io/spreadscan/internal/scan"
)

// Entry is one JSONL line. RunID groups every record written by a single
// scan run.
type Entry struct {
	Type  string      `json:"type"`
	ID    string      `json:"id"`
	RunID string      `json:"run_id"`
	Data  interface{} `json:"data"`
	Event time.Time   `json:"event"`
}

// ExitRecord pairs a position snapshot with the decision taken on it.
type ExitRecord struct {
	Position exits.PositionSnapshot `json:"position"`
	Decision exits.Decision         `json:"decision"`
}

type Outbox struct {
	path  string
	runID string
}

// New creates the sink's parent directory and assigns a fresh run ID.
func New(path string) (*Outbox, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return &Outbox{path: path, runID: uuid.NewString()}, nil
}

// RunID returns the identifier stamped on every record of this run.
func (o *Outbox) RunID() string {
	return o.runID
}

// WriteScan appends one per-underlying scan result.
func (o *Outbox) WriteScan(res scan.Result) error {
	return o.appendEntry("scan_result", res)
}

// WriteChecklist appends the gate outcome for the run.
func (o *Outbox) WriteChecklist(res gate.Result) error {
	return o.appendEntry("checklist_result", res)
}

// WriteExit appends an exit decision for an open position.
func (o *Outbox) WriteExit(pos exits.PositionSnapshot, dec exits.Decision) error {
	return o.appendEntry("exit_decision", ExitRecord{Position: pos, Decision: dec})
}

func (o *Outbox) appendEntry(entryType string, data interface{}) error {
	entry := Entry{
		Type:  entryType,
		ID:    uuid.NewString(),
		RunID: o.runID,
		Data:  data,
		Event: time.Now().UTC(),
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(o.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(string(b) + "\n")
	return err
}
