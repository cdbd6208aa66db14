package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"
	"task-manager/internal/store"

	"github.com/google/uuid"
)

// memoryStore is an in-memory directory store. A transaction holds the store
// mutex for its whole duration and restores a snapshot when fn fails.
type memoryStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]domain.User
	teams       map[uuid.UUID]domain.Team
	memberships map[uuid.UUID]domain.TeamMembership // keyed by user
	tasks       map[uuid.UUID]domain.Task
	history     []domain.TaskHistoryEntry

	failInsertHistory error
	failGetTask       error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:       make(map[uuid.UUID]domain.User),
		teams:       make(map[uuid.UUID]domain.Team),
		memberships: make(map[uuid.UUID]domain.TeamMembership),
		tasks:       make(map[uuid.UUID]domain.Task),
	}
}

// users

func (m *memoryStore) CreateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return my_errors.ErrEmailInUse
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryStore) GetUserByID(_ context.Context, userID uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, my_errors.ErrUserNotFound
	}
	return &u, nil
}

func (m *memoryStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, my_errors.ErrUserNotFound
}

func (m *memoryStore) UpdateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return my_errors.ErrUserNotFound
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryStore) DeleteUser(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return my_errors.ErrUserNotFound
	}
	delete(m.users, userID)
	delete(m.memberships, userID)
	return nil
}

func (m *memoryStore) SetUserRole(_ context.Context, userID uuid.UUID, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return my_errors.ErrUserNotFound
	}
	u.Role = role
	m.users[userID] = u
	return nil
}

// teams

func (m *memoryStore) CreateTeam(_ context.Context, team *domain.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teams {
		if t.Name == team.Name {
			return my_errors.ErrTeamAlreadyExists
		}
	}
	m.teams[team.ID] = *team
	return nil
}

func (m *memoryStore) GetTeamByID(_ context.Context, teamID uuid.UUID) (*domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[teamID]
	if !ok {
		return nil, my_errors.ErrTeamNotFound
	}
	return &t, nil
}

func (m *memoryStore) TeamExists(_ context.Context, teamID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.teams[teamID]
	return ok, nil
}

func (m *memoryStore) ListTeams(_ context.Context) ([]domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	teams := make([]domain.Team, 0, len(m.teams))
	for _, t := range m.teams {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (m *memoryStore) UpdateTeam(_ context.Context, team *domain.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teams[team.ID]; !ok {
		return my_errors.ErrTeamNotFound
	}
	for _, t := range m.teams {
		if t.ID != team.ID && t.Name == team.Name {
			return my_errors.ErrTeamAlreadyExists
		}
	}
	m.teams[team.ID] = *team
	return nil
}

func (m *memoryStore) DeleteTeam(_ context.Context, teamID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teams[teamID]; !ok {
		return my_errors.ErrTeamNotFound
	}
	delete(m.teams, teamID)
	return nil
}

// memberships

func (m *memoryStore) AddMember(_ context.Context, membership *domain.TeamMembership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.memberships[membership.UserID]; ok {
		return my_errors.ErrAlreadyTeamMember
	}
	m.memberships[membership.UserID] = *membership
	return nil
}

func (m *memoryStore) GetMembershipByUser(_ context.Context, userID uuid.UUID) (*domain.TeamMembership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.membershipByUser(userID), nil
}

func (m *memoryStore) membershipByUser(userID uuid.UUID) *domain.TeamMembership {
	tm, ok := m.memberships[userID]
	if !ok {
		return nil
	}
	return &tm
}

func (m *memoryStore) ListMembers(_ context.Context, teamID uuid.UUID) ([]domain.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := []domain.TeamMember{}
	for _, tm := range m.memberships {
		if tm.TeamID != teamID {
			continue
		}
		u := m.users[tm.UserID]
		members = append(members, domain.TeamMember{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Role < members[j].Role })
	return members, nil
}

func (m *memoryStore) RemoveMember(_ context.Context, userID, teamID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tm, ok := m.memberships[userID]
	if !ok || tm.TeamID != teamID {
		return my_errors.ErrMemberNotFound
	}
	delete(m.memberships, userID)
	return nil
}

// tasks

func (m *memoryStore) CreateTask(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teams[task.TeamID]; !ok {
		return my_errors.ErrTeamNotFound
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *memoryStore) GetTaskByID(_ context.Context, taskID uuid.UUID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGetTask != nil {
		return nil, m.failGetTask
	}
	t, ok := m.tasks[taskID]
	if !ok {
		return nil, my_errors.ErrTaskNotFound
	}
	return &t, nil
}

func (m *memoryStore) ListTasks(_ context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := []domain.Task{}
	for _, t := range m.tasks {
		if filter.Matches(&t) {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks, nil
}

func (m *memoryStore) ListHistory(_ context.Context, taskID uuid.UUID) ([]domain.TaskHistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := []domain.TaskHistoryRecord{}
	for _, e := range m.history {
		if e.TaskID != taskID {
			continue
		}
		rec := domain.TaskHistoryRecord{TaskHistoryEntry: e}
		if u, ok := m.users[e.ChangedBy]; ok {
			rec.Actor = &domain.HistoryActor{ID: u.ID, Name: u.Name, Email: u.Email}
		} else {
			rec.ChangedBy = uuid.Nil
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].ChangedAt.After(records[j].ChangedAt) })
	return records, nil
}

func (m *memoryStore) DeleteTask(_ context.Context, taskID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[taskID]; !ok {
		return my_errors.ErrTaskNotFound
	}
	delete(m.tasks, taskID)
	return nil
}

func (m *memoryStore) historyFor(taskID uuid.UUID) []domain.TaskHistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.TaskHistoryEntry
	for _, e := range m.history {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out
}

func (m *memoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.TaskTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make(map[uuid.UUID]domain.Task, len(m.tasks))
	for k, v := range m.tasks {
		tasks[k] = v
	}
	history := append([]domain.TaskHistoryEntry(nil), m.history...)

	if err := fn(ctx, memoryTx{m}); err != nil {
		m.tasks = tasks
		m.history = history
		return err
	}
	return nil
}

// memoryTx runs with the store mutex already held.
type memoryTx struct{ m *memoryStore }

func (tx memoryTx) GetTaskForUpdate(_ context.Context, taskID uuid.UUID) (*domain.Task, error) {
	t, ok := tx.m.tasks[taskID]
	if !ok {
		return nil, my_errors.ErrTaskNotFound
	}
	return &t, nil
}

func (tx memoryTx) TeamExists(_ context.Context, teamID uuid.UUID) (bool, error) {
	_, ok := tx.m.teams[teamID]
	return ok, nil
}

func (tx memoryTx) UserExists(_ context.Context, userID uuid.UUID) (bool, error) {
	_, ok := tx.m.users[userID]
	return ok, nil
}

func (tx memoryTx) GetMembershipByUser(_ context.Context, userID uuid.UUID) (*domain.TeamMembership, error) {
	return tx.m.membershipByUser(userID), nil
}

func (tx memoryTx) UpdateTask(_ context.Context, task *domain.Task) error {
	if _, ok := tx.m.tasks[task.ID]; !ok {
		return my_errors.ErrTaskNotFound
	}
	tx.m.tasks[task.ID] = *task
	return nil
}

func (tx memoryTx) InsertHistory(_ context.Context, entry *domain.TaskHistoryEntry) error {
	if tx.m.failInsertHistory != nil {
		return tx.m.failInsertHistory
	}
	tx.m.history = append(tx.m.history, *entry)
	return nil
}

// seed helpers

func (m *memoryStore) seedUser(name string, role domain.Role) domain.User {
	u := domain.User{ID: uuid.New(), Name: name, Email: strings.ToLower(name) + "@example.com", Role: role}
	m.users[u.ID] = u
	return u
}

func (m *memoryStore) seedTeam(name string) domain.Team {
	t := domain.Team{ID: uuid.New(), Name: name}
	m.teams[t.ID] = t
	return t
}

func (m *memoryStore) seedMembership(userID, teamID uuid.UUID) {
	m.memberships[userID] = domain.TeamMembership{ID: uuid.New(), UserID: userID, TeamID: teamID}
}

// tickingClock returns strictly increasing timestamps.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}
