package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nitwit45/automation-tm/internal/domain"
	"github.com/nitwit45/automation-tm/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	profiles map[domain.ProfileName]domain.Profile
	saveErr  error
}

func newFakeRepo(profiles ...domain.Profile) *fakeRepo {
	repo := &fakeRepo{profiles: map[domain.ProfileName]domain.Profile{}}
	for _, p := range profiles {
		repo.profiles[p.Name] = p
	}
	return repo
}

func (r *fakeRepo) GetByName(_ context.Context, name domain.ProfileName) (domain.Profile, error) {
	profile, ok := r.profiles[name]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (r *fakeRepo) List(context.Context) ([]domain.Profile, error) {
	var out []domain.Profile
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepo) Save(_ context.Context, profile domain.Profile) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.profiles[profile.Name] = profile
	return nil
}

type fakeSecrets struct {
	values map[string]string
}

func newFakeSecrets() *fakeSecrets {
	return &fakeSecrets{values: map[string]string{}}
}

func (s *fakeSecrets) Get(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	}
	return value, nil
}

func (s *fakeSecrets) Put(_ context.Context, key string, value string) error {
	s.values[key] = value
	return nil
}

func (s *fakeSecrets) Delete(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

type fakeClientStore struct {
	entries map[string]ports.TaskClient
	removed []string
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{entries: map[string]ports.TaskClient{}}
}

func (s *fakeClientStore) Get(id string) (ports.TaskClient, bool) {
	client, ok := s.entries[id]
	return client, ok
}

func (s *fakeClientStore) Put(id string, client ports.TaskClient) {
	s.entries[id] = client
}

func (s *fakeClientStore) Remove(id string) {
	delete(s.entries, id)
	s.removed = append(s.removed, id)
}

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

type fakeClient struct {
	loginOK bool
	valid   bool
	startOK bool

	loginCalls    int
	lastLogin     string
	taskTypeCalls int
	projectCalls  int

	taskTypes  []domain.CatalogEntry
	projects   []domain.CatalogEntry
	categories []domain.CatalogEntry
	activities []domain.CatalogEntry

	started    []domain.TaskDraft
	transition domain.TransitionResult
	ops        []string

	lists map[string]domain.TaskList
}

var _ ports.TaskClient = (*fakeClient)(nil)

func (c *fakeClient) Login(_ context.Context, username, password string) bool {
	c.loginCalls++
	c.lastLogin = username + ":" + password
	return c.loginOK
}

func (c *fakeClient) SessionValid(context.Context) bool { return c.valid }

func (c *fakeClient) RefreshToken(context.Context) {}

func (c *fakeClient) TaskTypes(context.Context) []domain.CatalogEntry {
	c.taskTypeCalls++
	return c.taskTypes
}

func (c *fakeClient) Projects(context.Context) []domain.CatalogEntry {
	c.projectCalls++
	return c.projects
}

func (c *fakeClient) Categories(context.Context, string) []domain.CatalogEntry {
	return c.categories
}

func (c *fakeClient) Activities(context.Context, string, string) []domain.CatalogEntry {
	return c.activities
}

func (c *fakeClient) Catalog() domain.Catalog {
	return domain.Catalog{TaskTypes: c.taskTypes, Projects: c.projects}
}

func (c *fakeClient) StartTask(_ context.Context, draft domain.TaskDraft) bool {
	c.started = append(c.started, draft)
	return c.startOK
}

func (c *fakeClient) PauseTask(_ context.Context, id domain.TaskID, at string) domain.TransitionResult {
	c.ops = append(c.ops, fmt.Sprintf("pause %s %q", id, at))
	return c.transition
}

func (c *fakeClient) ResumeTask(_ context.Context, id domain.TaskID, at string) domain.TransitionResult {
	c.ops = append(c.ops, fmt.Sprintf("resume %s %q", id, at))
	return c.transition
}

func (c *fakeClient) EndTask(_ context.Context, id domain.TaskID, at string) domain.TransitionResult {
	c.ops = append(c.ops, fmt.Sprintf("end %s %q", id, at))
	return c.transition
}

func (c *fakeClient) MyTasks(_ context.Context, date string) domain.TaskList {
	if list, ok := c.lists[date]; ok {
		return list
	}
	return domain.FailedTaskList("no data for " + date)
}

func workProfile() domain.Profile {
	return domain.Profile{
		Name:      "work",
		BaseURL:   "https://dtm.example.test",
		Username:  "jdoe",
		SecretRef: "dtm/work/password",
	}
}

func dialOnce(t *testing.T, client *fakeClient) ClientFactory {
	t.Helper()

	dialed := false
	return func(baseURL string) (ports.TaskClient, error) {
		require.False(t, dialed, "dial must happen at most once")
		dialed = true
		require.Equal(t, "https://dtm.example.test", baseURL)
		return client, nil
	}
}

func dialNever(t *testing.T) ClientFactory {
	t.Helper()

	return func(string) (ports.TaskClient, error) {
		t.Fatal("unexpected dial")
		return nil, nil
	}
}

func newTestService(repo *fakeRepo, secrets *fakeSecrets, clients *fakeClientStore, dial ClientFactory) *Service {
	return NewService(repo, secrets, clients, dial, fakeClock{now: time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)})
}

func TestConnectReusesStoredClientWhileSessionHolds(t *testing.T) {
	t.Parallel()

	stored := &fakeClient{valid: true}
	clients := newFakeClientStore()
	clients.Put("work", stored)

	service := newTestService(newFakeRepo(workProfile()), newFakeSecrets(), clients, dialNever(t))

	client, err := service.Connect(context.Background(), "work")
	require.NoError(t, err)
	assert.Same(t, stored, client.(*fakeClient))
	assert.Zero(t, stored.loginCalls)
}

func TestConnectReplacesExpiredClient(t *testing.T) {
	t.Parallel()

	expired := &fakeClient{valid: false}
	clients := newFakeClientStore()
	clients.Put("work", expired)

	secrets := newFakeSecrets()
	secrets.values["dtm/work/password"] = "hunter2"

	fresh := &fakeClient{loginOK: true}
	service := newTestService(newFakeRepo(workProfile()), secrets, clients, dialOnce(t, fresh))

	client, err := service.Connect(context.Background(), "work")
	require.NoError(t, err)
	assert.Same(t, fresh, client.(*fakeClient))
	assert.Equal(t, "jdoe:hunter2", fresh.lastLogin)
	assert.Contains(t, clients.removed, "work")

	got, ok := clients.Get("work")
	require.True(t, ok)
	assert.Same(t, fresh, got.(*fakeClient))
}

func TestConnectReportsRejectedLogin(t *testing.T) {
	t.Parallel()

	secrets := newFakeSecrets()
	secrets.values["dtm/work/password"] = "wrong"

	clients := newFakeClientStore()
	service := newTestService(newFakeRepo(workProfile()), secrets, clients, dialOnce(t, &fakeClient{loginOK: false}))

	_, err := service.Connect(context.Background(), "work")
	require.ErrorIs(t, err, ErrLoginFailed)

	_, ok := clients.Get("work")
	assert.False(t, ok, "a rejected login must not be cached")
}

func TestConnectFailsWithoutProfile(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo(), newFakeSecrets(), newFakeClientStore(), dialNever(t))

	_, err := service.Connect(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestConnectFailsWithoutPassword(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo(workProfile()), newFakeSecrets(), newFakeClientStore(), dialNever(t))

	_, err := service.Connect(context.Background(), "work")
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestSetupStoresEverythingAndPrimesCatalog(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	secrets := newFakeSecrets()
	client := &fakeClient{loginOK: true}
	service := newTestService(repo, secrets, newFakeClientStore(), dialOnce(t, client))

	err := service.Setup(context.Background(), SetupCommand{
		Profile:  "work",
		BaseURL:  "https://dtm.example.test",
		Username: "jdoe",
		Password: "hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, "hunter2", secrets.values["dtm/work/password"])

	profile, err := repo.GetByName(context.Background(), "work")
	require.NoError(t, err)
	assert.Equal(t, "dtm/work/password", profile.SecretRef)
	assert.Equal(t, "jdoe", profile.Username)

	assert.Equal(t, 1, client.taskTypeCalls)
	assert.Equal(t, 1, client.projectCalls)
}

func TestStartTaskResolvesNamesAndRecordsMemo(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(workProfile())
	secrets := newFakeSecrets()
	secrets.values["dtm/work/password"] = "hunter2"

	client := &fakeClient{
		loginOK:   true,
		startOK:   true,
		taskTypes: []domain.CatalogEntry{{ID: "1", Name: "Development"}, {ID: "2", Name: "Bug Fixing"}},
		projects:  []domain.CatalogEntry{{ID: "12", Name: "DTM Portal"}},
	}
	service := newTestService(repo, secrets, newFakeClientStore(), dialOnce(t, client))

	err := service.StartTask(context.Background(), StartTaskCommand{
		Profile:     "work",
		TaskType:    "bug fix",
		Project:     "portal",
		Description: "Crash on resume",
	})
	require.NoError(t, err)

	require.Len(t, client.started, 1)
	assert.Equal(t, "2", client.started[0].TaskTypeID)
	assert.Equal(t, "12", client.started[0].ProjectID)

	profile, err := repo.GetByName(context.Background(), "work")
	require.NoError(t, err)
	require.NotNil(t, profile.LastTask)
	assert.Equal(t, "Bug Fixing", profile.LastTask.TaskType)
	assert.Equal(t, "DTM Portal", profile.LastTask.Project)
	assert.Equal(t, "Crash on resume", profile.LastTask.Description)
}

func TestStartTaskAcceptsBareIDs(t *testing.T) {
	t.Parallel()

	secrets := newFakeSecrets()
	secrets.values["dtm/work/password"] = "hunter2"

	client := &fakeClient{
		loginOK:   true,
		startOK:   true,
		taskTypes: []domain.CatalogEntry{{ID: "1", Name: "Development"}},
		projects:  []domain.CatalogEntry{{ID: "12", Name: "DTM Portal"}},
	}
	service := newTestService(newFakeRepo(workProfile()), secrets, newFakeClientStore(), dialOnce(t, client))

	err := service.StartTask(context.Background(), StartTaskCommand{
		Profile:     "work",
		TaskType:    "1",
		Project:     "12",
		Description: "x",
	})
	require.NoError(t, err)
	require.Len(t, client.started, 1)
	assert.Equal(t, "1", client.started[0].TaskTypeID)
}

func TestStartTaskResolvesCategoryChain(t *testing.T) {
	t.Parallel()

	secrets := newFakeSecrets()
	secrets.values["dtm/work/password"] = "hunter2"

	client := &fakeClient{
		loginOK:    true,
		startOK:    true,
		taskTypes:  []domain.CatalogEntry{{ID: "1", Name: "Development"}},
		projects:   []domain.CatalogEntry{{ID: "12", Name: "DTM Portal"}},
		categories: []domain.CatalogEntry{{ID: "7", Name: "Frontend"}},
		activities: []domain.CatalogEntry{{ID: "3", Name: "Code Review"}},
	}
	service := newTestService(newFakeRepo(workProfile()), secrets, newFakeClientStore(), dialOnce(t, client))

	err := service.StartTask(context.Background(), StartTaskCommand{
		Profile:     "work",
		TaskType:    "devel",
		Project:     "portal",
		Category:    "front",
		Activity:    "review",
		Description: "x",
	})
	require.NoError(t, err)

	require.Len(t, client.started, 1)
	assert.Equal(t, "7", client.started[0].CategoryID)
	assert.Equal(t, "3", client.started[0].ActivityID)
}

func TestStartTaskRejectsUnknownProject(t *testing.T) {
	t.Parallel()

	secrets := newFakeSecrets()
	secrets.values["dtm/work/password"] = "hunter2"

	client := &fakeClient{
		loginOK:   true,
		taskTypes: []domain.CatalogEntry{{ID: "1", Name: "Development"}},
		projects:  []domain.CatalogEntry{{ID: "12", Name: "DTM Portal"}},
	}
	service := newTestService(newFakeRepo(workProfile()), secrets, newFakeClientStore(), dialOnce(t, client))

	err := service.StartTask(context.Background(), StartTaskCommand{
		Profile:     "work",
		TaskType:    "devel",
		Project:     "intranet",
		Description: "x",
	})
	require.ErrorIs(t, err, ErrUnknownProject)
	assert.Empty(t, client.started)
}

func TestStartTaskRemoteRefusalLeavesNoMemo(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(workProfile())
	secrets := newFakeSecrets()
	secrets.values["dtm/work/password"] = "hunter2"

	client := &fakeClient{
		loginOK:   true,
		startOK:   false,
		taskTypes: []domain.CatalogEntry{{ID: "1", Name: "Development"}},
		projects:  []domain.CatalogEntry{{ID: "12", Name: "DTM Portal"}},
	}
	service := newTestService(repo, secrets, newFakeClientStore(), dialOnce(t, client))

	err := service.StartTask(context.Background(), StartTaskCommand{
		Profile:     "work",
		TaskType:    "1",
		Project:     "12",
		Description: "x",
	})
	require.ErrorIs(t, err, ErrTaskStartFailed)

	profile, err := repo.GetByName(context.Background(), "work")
	require.NoError(t, err)
	assert.Nil(t, profile.LastTask)
}

func TestTransitionsDispatchToClient(t *testing.T) {
	t.Parallel()

	client := &fakeClient{valid: true, transition: domain.TransitionResult{OK: true}}
	clients := newFakeClientStore()
	clients.Put("work", client)

	service := newTestService(newFakeRepo(workProfile()), newFakeSecrets(), clients, dialNever(t))
	cmd := TransitionCommand{Profile: "work", TaskID: "777", At: "2025-01-31 02:45 PM"}

	require.NoError(t, service.PauseTask(context.Background(), cmd))
	require.NoError(t, service.ResumeTask(context.Background(), cmd))
	require.NoError(t, service.EndTask(context.Background(), cmd))

	assert.Equal(t, []string{
		`pause 777 "2025-01-31 02:45 PM"`,
		`resume 777 "2025-01-31 02:45 PM"`,
		`end 777 "2025-01-31 02:45 PM"`,
	}, client.ops)
}

func TestTransitionWrapsRemoteMessage(t *testing.T) {
	t.Parallel()

	client := &fakeClient{valid: true, transition: domain.TransitionResult{Message: "Task already ended"}}
	clients := newFakeClientStore()
	clients.Put("work", client)

	service := newTestService(newFakeRepo(workProfile()), newFakeSecrets(), clients, dialNever(t))

	err := service.EndTask(context.Background(), TransitionCommand{Profile: "work", TaskID: "777"})
	require.ErrorIs(t, err, ErrTransitionFailed)
	assert.ErrorContains(t, err, "Task already ended")
}

func TestSessionValidWithoutStoredClient(t *testing.T) {
	t.Parallel()

	service := newTestService(newFakeRepo(), newFakeSecrets(), newFakeClientStore(), dialNever(t))
	assert.False(t, service.SessionValid(context.Background(), "work"))
}

func TestLogoutDropsStoredClient(t *testing.T) {
	t.Parallel()

	clients := newFakeClientStore()
	clients.Put("work", &fakeClient{valid: true})

	service := newTestService(newFakeRepo(), newFakeSecrets(), clients, dialNever(t))
	service.Logout("work")

	_, ok := clients.Get("work")
	assert.False(t, ok)
}

func TestOngoingTasksDeduplicatesAcrossDays(t *testing.T) {
	t.Parallel()

	ongoingRow := func(id, status string) domain.TaskRow {
		row := make(domain.TaskRow, domain.ColumnStatus+1)
		row[domain.ColumnTaskID] = id
		row[domain.ColumnStatus] = status
		return row
	}

	client := &fakeClient{
		valid: true,
		lists: map[string]domain.TaskList{
			// Clock is fixed to 2025-01-31.
			"2025-01-31": {Success: true, Tasks: []domain.TaskRow{
				ongoingRow("777", "On Going"),
				ongoingRow("888", "Completed"),
			}},
			"2025-01-30": {Success: true, Tasks: []domain.TaskRow{
				ongoingRow("777", "Pause"),
				ongoingRow("999", "Pause"),
			}},
			// 2025-01-29 has no fixture; the failed list is skipped.
		},
	}
	clients := newFakeClientStore()
	clients.Put("work", client)

	service := newTestService(newFakeRepo(workProfile()), newFakeSecrets(), clients, dialNever(t))

	rows, err := service.OngoingTasks(context.Background(), "work", 3)
	require.NoError(t, err)

	var ids []domain.TaskID
	for _, row := range rows {
		ids = append(ids, row.ID())
	}
	assert.Equal(t, []domain.TaskID{"777", "999"}, ids)
}

func TestLastTaskReadsMemo(t *testing.T) {
	t.Parallel()

	profile := workProfile()
	profile.LastTask = &domain.LastTask{TaskType: "Development", Project: "DTM Portal", Description: "x"}

	service := newTestService(newFakeRepo(profile), newFakeSecrets(), newFakeClientStore(), dialNever(t))

	last, err := service.LastTask(context.Background(), "work")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "Development", last.TaskType)

	_, err = service.LastTask(context.Background(), "missing")
	assert.Error(t, err)
}

func TestStartTaskMemoSurvivesSaveFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(workProfile())
	secrets := newFakeSecrets()
	secrets.values["dtm/work/password"] = "hunter2"

	client := &fakeClient{
		loginOK:   true,
		startOK:   true,
		taskTypes: []domain.CatalogEntry{{ID: "1", Name: "Development"}},
		projects:  []domain.CatalogEntry{{ID: "12", Name: "DTM Portal"}},
	}
	service := newTestService(repo, secrets, newFakeClientStore(), dialOnce(t, client))

	repo.saveErr = errors.New("disk full")
	err := service.StartTask(context.Background(), StartTaskCommand{
		Profile:     "work",
		TaskType:    "1",
		Project:     "12",
		Description: "x",
	})
	assert.NoError(t, err, "a failed memo save must not fail the start")
}
