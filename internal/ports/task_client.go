package ports

import (
	"context"

	"github.com/nitwit45/automation-tm/internal/domain"
)

// TaskClient is the method surface of one logical logged-in user against the
// remote time-tracking service. Implementations are not safe for concurrent
// use; callers serialize access per instance.
//
// The boolean returns are deliberate: the remote service reports outcomes as
// page content and status codes, and transport failures collapse to the same
// observable "it did not happen" as a remote refusal.
type TaskClient interface {
	Login(ctx context.Context, username, password string) bool
	SessionValid(ctx context.Context) bool
	RefreshToken(ctx context.Context)

	TaskTypes(ctx context.Context) []domain.CatalogEntry
	Projects(ctx context.Context) []domain.CatalogEntry
	Categories(ctx context.Context, projectID string) []domain.CatalogEntry
	Activities(ctx context.Context, projectID, categoryID string) []domain.CatalogEntry
	Catalog() domain.Catalog

	StartTask(ctx context.Context, draft domain.TaskDraft) bool
	PauseTask(ctx context.Context, id domain.TaskID, at string) domain.TransitionResult
	ResumeTask(ctx context.Context, id domain.TaskID, at string) domain.TransitionResult
	EndTask(ctx context.Context, id domain.TaskID, at string) domain.TransitionResult
	MyTasks(ctx context.Context, date string) domain.TaskList
}
