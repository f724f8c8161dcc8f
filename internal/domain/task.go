package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// TaskID is assigned by the remote system; the client never invents one.
type TaskID string

// StatusCode selects a lifecycle transition on the remote update endpoint.
// The numerals are remote protocol constants, not a client invention.
type StatusCode int

const (
	StatusPause  StatusCode = 1
	StatusResume StatusCode = 2
	StatusEnd    StatusCode = 4
)

// Status strings the remote task table reports in its status column.
const (
	StatusTextOngoing = "On Going"
	StatusTextPaused  = "Pause"
	StatusTextOnHold  = "On Hold"
)

// DefaultTaskTypeLabel is submitted when the chosen task type cannot be found
// in the cached catalog, matching what the remote form would have shown.
const DefaultTaskTypeLabel = "Development"

// TaskDraft is the caller-supplied input for a task start. It is submitted
// once; the remote service owns the resulting task's identity. StartAt is an
// optional combined date/time string, empty meaning "now".
type TaskDraft struct {
	TaskTypeID  string
	ProjectID   string
	Description string
	CategoryID  string
	ActivityID  string
	BugID       string
	StartAt     string
}

// Column offsets in a remote task row. The row is otherwise opaque
// pass-through data; only these two positions carry known meaning.
const (
	ColumnTaskID = 0
	ColumnStatus = 8
)

// TaskRow is one row of the remote task table. Cells are usually HTML text;
// non-string cells are kept as their raw JSON so nothing is lost in transit.
type TaskRow []string

func (r *TaskRow) UnmarshalJSON(data []byte) error {
	var cells []json.RawMessage
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}

	row := make(TaskRow, 0, len(cells))
	for _, cell := range cells {
		var s string
		if err := json.Unmarshal(cell, &s); err == nil {
			row = append(row, s)
			continue
		}
		row = append(row, string(bytes.TrimSpace(cell)))
	}

	*r = row
	return nil
}

func (r TaskRow) ID() TaskID {
	if len(r) <= ColumnTaskID {
		return ""
	}
	return TaskID(r[ColumnTaskID])
}

func (r TaskRow) StatusText() string {
	if len(r) <= ColumnStatus {
		return ""
	}
	return r[ColumnStatus]
}

// Ongoing reports whether the row's status marks a task as still running or
// merely paused, i.e. one a caller may still transition.
func (r TaskRow) Ongoing() bool {
	status := r.StatusText()
	return strings.Contains(status, StatusTextOngoing) || strings.Contains(status, StatusTextPaused)
}

// TaskList is the result of the paginated "my tasks for date" query.
type TaskList struct {
	Success      bool
	Tasks        []TaskRow
	TotalHours   string
	TaskStatus   string
	TotalRecords int
	Raw          json.RawMessage
	Err          string
}

// FailedTaskList is the failure shape every error path of the task-list query
// collapses to, with the reason recorded for display.
func FailedTaskList(reason string) TaskList {
	return TaskList{
		Tasks:      []TaskRow{},
		TotalHours: "0:00",
		Err:        reason,
	}
}

// TransitionResult carries the remote verdict on a pause/resume/end request.
// Message is the remote-reported text, preserved for display when present.
type TransitionResult struct {
	OK      bool
	Message string
}
