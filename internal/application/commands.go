package application

import "github.com/nitwit45/automation-tm/internal/domain"

// SetupCommand creates or replaces a profile and its stored password.
type SetupCommand struct {
	Profile  domain.ProfileName
	BaseURL  string
	Username string
	Password string
}

// StartTaskCommand starts a task. TaskType and Project accept either a
// catalog id or a name fragment; Category and Activity are optional and
// resolved the same way when given.
type StartTaskCommand struct {
	Profile     domain.ProfileName
	TaskType    string
	Project     string
	Category    string
	Activity    string
	BugID       string
	Description string
	StartAt     string
}

// TransitionCommand pauses, resumes or ends a task by remote id. At is
// optional and must already be in "YYYY-MM-DD HH:MM AM/PM" form when given.
type TransitionCommand struct {
	Profile domain.ProfileName
	TaskID  domain.TaskID
	At      string
}
