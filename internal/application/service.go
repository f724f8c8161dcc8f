package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/nitwit45/automation-tm/internal/domain"
	"github.com/nitwit45/automation-tm/internal/ports"
)

var (
	ErrLoginFailed      = errors.New("login rejected by remote service")
	ErrTaskStartFailed  = errors.New("remote service refused to start the task")
	ErrTransitionFailed = errors.New("remote service refused the transition")
	ErrUnknownTaskType  = errors.New("task type not found in catalog")
	ErrUnknownProject   = errors.New("project not found in catalog")
	ErrUnknownCategory  = errors.New("category not found in catalog")
	ErrUnknownActivity  = errors.New("activity not found in catalog")
)

// ClientFactory builds a fresh remote client for a profile's base URL.
type ClientFactory func(baseURL string) (ports.TaskClient, error)

// Service orchestrates profiles, stored passwords and per-profile remote
// clients. Clients live in the store keyed by profile name; one client is one
// logical session and calls for the same profile must not overlap.
type Service struct {
	profiles ports.ProfileRepository
	secrets  ports.SecretStore
	clients  ports.ClientStore
	dial     ClientFactory
	clock    ports.Clock
}

func NewService(profiles ports.ProfileRepository, secrets ports.SecretStore, clients ports.ClientStore, dial ClientFactory, clock ports.Clock) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Service{
		profiles: profiles,
		secrets:  secrets,
		clients:  clients,
		dial:     dial,
		clock:    clock,
	}
}

// SecretKeyFor is the secret-store key layout for a profile's password.
func SecretKeyFor(name domain.ProfileName) string {
	return fmt.Sprintf("dtm/%s/password", name)
}

// Setup stores the profile and password, then verifies them with a real
// login and primes the client's catalog cache.
func (s *Service) Setup(ctx context.Context, cmd SetupCommand) error {
	secretKey := SecretKeyFor(cmd.Profile)

	if err := s.secrets.Put(ctx, secretKey, cmd.Password); err != nil {
		return fmt.Errorf("store password: %w", err)
	}

	profile := domain.Profile{
		Name:      cmd.Profile,
		BaseURL:   cmd.BaseURL,
		Username:  cmd.Username,
		SecretRef: secretKey,
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	client, err := s.Connect(ctx, cmd.Profile)
	if err != nil {
		return err
	}

	client.TaskTypes(ctx)
	client.Projects(ctx)
	return nil
}

// Connect returns a logged-in client for the profile, reusing the stored one
// when its session still probes as valid and logging in afresh otherwise.
func (s *Service) Connect(ctx context.Context, name domain.ProfileName) (ports.TaskClient, error) {
	if client, ok := s.clients.Get(string(name)); ok {
		if client.SessionValid(ctx) {
			return client, nil
		}
		s.clients.Remove(string(name))
	}

	profile, err := s.profiles.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	password, err := s.secrets.Get(ctx, profile.SecretRef)
	if err != nil {
		return nil, fmt.Errorf("load password: %w", err)
	}

	client, err := s.dial(profile.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	if !client.Login(ctx, profile.Username, password) {
		return nil, ErrLoginFailed
	}

	s.clients.Put(string(name), client)
	return client, nil
}

// SessionValid probes whether the stored client for the profile still holds
// an authenticated session. No stored client means no session.
func (s *Service) SessionValid(ctx context.Context, name domain.ProfileName) bool {
	client, ok := s.clients.Get(string(name))
	if !ok {
		return false
	}
	return client.SessionValid(ctx)
}

// Logout drops the stored client; the remote session simply expires.
func (s *Service) Logout(name domain.ProfileName) {
	s.clients.Remove(string(name))
}

func (s *Service) Profiles(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.List(ctx)
}

// TaskTypes and the other catalog reads go through a connected client so the
// returned ids can feed StartTask directly.
func (s *Service) TaskTypes(ctx context.Context, name domain.ProfileName) ([]domain.CatalogEntry, error) {
	client, err := s.Connect(ctx, name)
	if err != nil {
		return nil, err
	}
	return client.TaskTypes(ctx), nil
}

func (s *Service) Projects(ctx context.Context, name domain.ProfileName) ([]domain.CatalogEntry, error) {
	client, err := s.Connect(ctx, name)
	if err != nil {
		return nil, err
	}
	return client.Projects(ctx), nil
}

func (s *Service) Categories(ctx context.Context, name domain.ProfileName, projectID string) ([]domain.CatalogEntry, error) {
	client, err := s.Connect(ctx, name)
	if err != nil {
		return nil, err
	}
	return client.Categories(ctx, projectID), nil
}

func (s *Service) Activities(ctx context.Context, name domain.ProfileName, projectID, categoryID string) ([]domain.CatalogEntry, error) {
	client, err := s.Connect(ctx, name)
	if err != nil {
		return nil, err
	}
	return client.Activities(ctx, projectID, categoryID), nil
}

// StartTask resolves the draft against the catalog (ids pass through, names
// are matched by substring), submits it, and records the last-task memo on
// the profile when the remote accepts.
func (s *Service) StartTask(ctx context.Context, cmd StartTaskCommand) error {
	client, err := s.Connect(ctx, cmd.Profile)
	if err != nil {
		return err
	}

	taskType, err := resolveEntry(client.TaskTypes(ctx), cmd.TaskType, ErrUnknownTaskType)
	if err != nil {
		return err
	}
	project, err := resolveEntry(client.Projects(ctx), cmd.Project, ErrUnknownProject)
	if err != nil {
		return err
	}

	draft := domain.TaskDraft{
		TaskTypeID:  taskType.ID,
		ProjectID:   project.ID,
		Description: cmd.Description,
		BugID:       cmd.BugID,
		StartAt:     cmd.StartAt,
	}

	if cmd.Category != "" {
		category, err := resolveEntry(client.Categories(ctx, project.ID), cmd.Category, ErrUnknownCategory)
		if err != nil {
			return err
		}
		draft.CategoryID = category.ID

		if cmd.Activity != "" {
			activity, err := resolveEntry(client.Activities(ctx, project.ID, category.ID), cmd.Activity, ErrUnknownActivity)
			if err != nil {
				return err
			}
			draft.ActivityID = activity.ID
		}
	}

	if !client.StartTask(ctx, draft) {
		return ErrTaskStartFailed
	}

	s.recordLastTask(ctx, cmd.Profile, taskType.Name, project.Name, cmd.Description)
	return nil
}

func (s *Service) PauseTask(ctx context.Context, cmd TransitionCommand) error {
	return s.transition(ctx, cmd, ports.TaskClient.PauseTask)
}

func (s *Service) ResumeTask(ctx context.Context, cmd TransitionCommand) error {
	return s.transition(ctx, cmd, ports.TaskClient.ResumeTask)
}

func (s *Service) EndTask(ctx context.Context, cmd TransitionCommand) error {
	return s.transition(ctx, cmd, ports.TaskClient.EndTask)
}

func (s *Service) transition(ctx context.Context, cmd TransitionCommand, op func(ports.TaskClient, context.Context, domain.TaskID, string) domain.TransitionResult) error {
	client, err := s.Connect(ctx, cmd.Profile)
	if err != nil {
		return err
	}

	result := op(client, ctx, cmd.TaskID, cmd.At)
	if !result.OK {
		if result.Message != "" {
			return fmt.Errorf("%w: %s", ErrTransitionFailed, result.Message)
		}
		return ErrTransitionFailed
	}
	return nil
}

// ListTasks returns the remote task table for one date (empty means today).
func (s *Service) ListTasks(ctx context.Context, name domain.ProfileName, date string) (domain.TaskList, error) {
	client, err := s.Connect(ctx, name)
	if err != nil {
		return domain.TaskList{}, err
	}
	return client.MyTasks(ctx, date), nil
}

// OngoingTasks scans the last days of task lists for rows still marked
// running or paused, de-duplicated by task id. Tasks can span days, so one
// day's list is not enough.
func (s *Service) OngoingTasks(ctx context.Context, name domain.ProfileName, days int) ([]domain.TaskRow, error) {
	client, err := s.Connect(ctx, name)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}

	var ongoing []domain.TaskRow
	seen := map[domain.TaskID]struct{}{}
	today := s.clock.Now()

	for back := 0; back < days; back++ {
		date := today.AddDate(0, 0, -back).Format(domain.DateLayout)
		list := client.MyTasks(ctx, date)
		if !list.Success {
			continue
		}
		for _, row := range list.Tasks {
			if !row.Ongoing() {
				continue
			}
			id := row.ID()
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ongoing = append(ongoing, row)
		}
	}

	return ongoing, nil
}

// LastTask returns the memo stored by the most recent successful start.
func (s *Service) LastTask(ctx context.Context, name domain.ProfileName) (*domain.LastTask, error) {
	profile, err := s.profiles.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile.LastTask, nil
}

func (s *Service) recordLastTask(ctx context.Context, name domain.ProfileName, taskType, project, description string) {
	profile, err := s.profiles.GetByName(ctx, name)
	if err != nil {
		return
	}

	profile.LastTask = &domain.LastTask{
		TaskType:    taskType,
		Project:     project,
		Description: description,
		StartedAt:   s.clock.Now(),
	}
	// The memo is a convenience; a failed save must not fail the start.
	_ = s.profiles.Save(ctx, profile)
}

// resolveEntry accepts a catalog id or a name fragment.
func resolveEntry(entries []domain.CatalogEntry, ref string, notFound error) (domain.CatalogEntry, error) {
	if entry, ok := domain.FindEntryByID(entries, ref); ok {
		return entry, nil
	}
	if entry, ok := domain.FindEntryByName(entries, ref); ok {
		return entry, nil
	}
	return domain.CatalogEntry{}, fmt.Errorf("%w: %q", notFound, ref)
}
