package application

import (
	"context"

	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// fakeUserStore is an in-memory UserStore for service tests.
type fakeUserStore struct {
	users  map[string]*model.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) Exists(_ context.Context, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

func (f *fakeUserStore) Register(_ context.Context, username, passwordHash string) (*model.User, error) {
	if _, ok := f.users[username]; ok {
		return nil, driven.ErrDuplicateUsername
	}
	f.nextID++
	user := &model.User{ID: f.nextID, Username: username, PasswordHash: passwordHash}
	f.users[username] = user
	return user, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return f.users[username], nil
}

func (f *fakeUserStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

// fakeTicketStore serves a fixed ticket list; only ListAll matters to the
// services under test.
type fakeTicketStore struct {
	tickets []model.Ticket
	err     error
}

func (f *fakeTicketStore) Create(_ context.Context, t model.Ticket) (*model.Ticket, error) {
	f.tickets = append(f.tickets, t)
	return &t, nil
}

func (f *fakeTicketStore) ListAll(_ context.Context) ([]model.Ticket, error) {
	return f.tickets, f.err
}

func (f *fakeTicketStore) Get(_ context.Context, id int64) (*model.Ticket, error) {
	for _, t := range f.tickets {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeTicketStore) Update(_ context.Context, _ int64, _, _ string) error { return nil }
func (f *fakeTicketStore) Delete(_ context.Context, _ int64) error              { return nil }

func (f *fakeTicketStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.tickets)), nil
}

// fakeIncidentStore serves a fixed incident list.
type fakeIncidentStore struct {
	incidents []model.Incident
}

func (f *fakeIncidentStore) Create(_ context.Context, i model.Incident) (*model.Incident, error) {
	f.incidents = append(f.incidents, i)
	return &i, nil
}

func (f *fakeIncidentStore) ListAll(_ context.Context) ([]model.Incident, error) {
	return f.incidents, nil
}

func (f *fakeIncidentStore) Get(_ context.Context, id int64) (*model.Incident, error) {
	for _, i := range f.incidents {
		if i.ID == id {
			return &i, nil
		}
	}
	return nil, nil
}

func (f *fakeIncidentStore) Update(_ context.Context, _ int64, _ model.Incident) error { return nil }
func (f *fakeIncidentStore) Delete(_ context.Context, _ int64) error                   { return nil }

func (f *fakeIncidentStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.incidents)), nil
}

// fakeDatasetStore serves a fixed dataset list.
type fakeDatasetStore struct {
	datasets []model.Dataset
}

func (f *fakeDatasetStore) Create(_ context.Context, d model.Dataset) (*model.Dataset, error) {
	f.datasets = append(f.datasets, d)
	return &d, nil
}

func (f *fakeDatasetStore) ListAll(_ context.Context) ([]model.Dataset, error) {
	return f.datasets, nil
}

func (f *fakeDatasetStore) Get(_ context.Context, id int64) (*model.Dataset, error) {
	for _, d := range f.datasets {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, nil
}

func (f *fakeDatasetStore) Update(_ context.Context, _ int64, _ model.Dataset) error { return nil }
func (f *fakeDatasetStore) Delete(_ context.Context, _ int64) error                  { return nil }

func (f *fakeDatasetStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.datasets)), nil
}

// fakeAdvisor records the last call and returns a canned answer or error.
type fakeAdvisor struct {
	answer      string
	err         error
	lastSummary string
	lastQuery   string
}

func (f *fakeAdvisor) Ask(_ context.Context, question, summary string) (string, error) {
	f.lastQuery = question
	f.lastSummary = summary
	return f.answer, f.err
}
