package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-staffing-service/internal/domain"
	"github.com/spec-kit/event-staffing-service/internal/repository"
)

// memStore is an in-memory repository.Store. RunInTransaction snapshots
// all tables before running fn and restores the snapshot when fn fails,
// mirroring a rollback.
type memStore struct {
	mu sync.Mutex

	users       map[string]domain.User
	events      map[string]domain.Event
	credentials map[string]domain.CredentialShadow
	templates   []domain.TemplateRevision
	assignments map[string]map[string]time.Time
	donations   []domain.Donation
	seq         int

	// Injectable failures for atomicity tests.
	failUserCreate     error
	failTemplateAppend error
	failAttach         error
	failEventUpdate    error
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]domain.User),
		events:      make(map[string]domain.Event),
		credentials: make(map[string]domain.CredentialShadow),
		assignments: make(map[string]map[string]time.Time),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) snapshot() *memStore {
	clone := newMemStore()
	clone.seq = s.seq
	for k, v := range s.users {
		clone.users[k] = v
	}
	for k, v := range s.events {
		clone.events[k] = v
	}
	for k, v := range s.credentials {
		clone.credentials[k] = v
	}
	clone.templates = append([]domain.TemplateRevision(nil), s.templates...)
	clone.donations = append([]domain.Donation(nil), s.donations...)
	for eventID, members := range s.assignments {
		edges := make(map[string]time.Time, len(members))
		for userID, at := range members {
			edges[userID] = at
		}
		clone.assignments[eventID] = edges
	}
	return clone
}

func (s *memStore) restore(snap *memStore) {
	s.users = snap.users
	s.events = snap.events
	s.credentials = snap.credentials
	s.templates = snap.templates
	s.assignments = snap.assignments
	s.donations = snap.donations
	s.seq = snap.seq
}

func (s *memStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) Events() repository.EventRepository           { return (*memEvents)(s) }
func (s *memStore) Users() repository.UserRepository             { return (*memUsers)(s) }
func (s *memStore) Credentials() repository.CredentialRepository { return (*memCredentials)(s) }
func (s *memStore) Templates() repository.TemplateRepository     { return (*memTemplates)(s) }
func (s *memStore) Assignments() repository.AssignmentRepository { return (*memAssignments)(s) }
func (s *memStore) Donations() repository.DonationRepository     { return (*memDonations)(s) }

// Seeding helpers.

func (s *memStore) seedUser(user domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = s.nextID("user")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return user
}

func (s *memStore) seedEvent(event domain.Event) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID == "" {
		event.ID = s.nextID("event")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.UpdatedAt = event.CreatedAt
	s.events[event.ID] = event
	return event
}

func (s *memStore) seedAssignment(eventID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assignments[eventID] == nil {
		s.assignments[eventID] = make(map[string]time.Time)
	}
	s.assignments[eventID][userID] = time.Now()
}

type memEvents memStore

func (r *memEvents) Create(ctx context.Context, event *domain.Event) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.nextID("event")
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	s.events[event.ID] = *event
	return nil
}

func (r *memEvents) Update(ctx context.Context, event *domain.Event) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failEventUpdate != nil {
		return s.failEventUpdate
	}
	stored, ok := s.events[event.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Title = event.Title
	stored.Location = event.Location
	stored.Date = event.Date
	stored.Type = event.Type
	stored.ImageURL = event.ImageURL
	stored.UpdatedAt = time.Now()
	s.events[event.ID] = stored
	return nil
}

func (r *memEvents) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &event, nil
}

func (r *memEvents) ListByOwner(ctx context.Context, ownerID string) ([]domain.Event, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Event
	for _, event := range s.events {
		if event.OwnerID == ownerID {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memEvents) ListByAssignee(ctx context.Context, userID string) ([]domain.Event, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	type edge struct {
		event domain.Event
		at    time.Time
	}
	var edges []edge
	for eventID, members := range s.assignments {
		at, ok := members[userID]
		if !ok {
			continue
		}
		if event, found := s.events[eventID]; found {
			edges = append(edges, edge{event: event, at: at})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if !edges[i].at.Equal(edges[j].at) {
			return edges[i].at.Before(edges[j].at)
		}
		return edges[i].event.ID < edges[j].event.ID
	})
	out := make([]domain.Event, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.event)
	}
	return out, nil
}

func (r *memEvents) Delete(ctx context.Context, id string) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.events, id)
	delete(s.assignments, id)
	return nil
}

func (r *memEvents) DeleteByOwner(ctx context.Context, ownerID string) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, event := range s.events {
		if event.OwnerID == ownerID {
			delete(s.events, id)
			delete(s.assignments, id)
		}
	}
	return nil
}

type memUsers memStore

func (r *memUsers) Create(ctx context.Context, user *domain.User) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUserCreate != nil {
		return s.failUserCreate
	}
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return fmt.Errorf("duplicate username %q", user.Username)
		}
	}
	user.ID = s.nextID("user")
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (r *memUsers) Update(ctx context.Context, user *domain.User) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUsers) ListByCreator(ctx context.Context, creatorID string, roles []domain.Role) ([]domain.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	roleSet := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}
	var out []domain.User
	for _, user := range s.users {
		if user.CreatedBy == nil || *user.CreatedBy != creatorID {
			continue
		}
		if _, ok := roleSet[user.Role]; !ok {
			continue
		}
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUsers) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.User
	for _, user := range s.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUsers) ListExpiredOwners(ctx context.Context, cutoff time.Time) ([]domain.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.User
	for _, user := range s.users {
		if user.Role != domain.RoleOwner || user.ExpiresAt == nil {
			continue
		}
		if user.ExpiresAt.Before(cutoff) {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUsers) Delete(ctx context.Context, id string) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.users, id)
	delete(s.credentials, id)
	return nil
}

func (r *memUsers) DeleteByCreator(ctx context.Context, creatorID string) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, user := range s.users {
		if user.CreatedBy != nil && *user.CreatedBy == creatorID {
			delete(s.users, id)
			delete(s.credentials, id)
		}
	}
	return nil
}

type memCredentials memStore

func (r *memCredentials) Upsert(ctx context.Context, userID, secret string) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	shadow, ok := s.credentials[userID]
	if !ok {
		shadow = domain.CredentialShadow{ID: s.nextID("cred"), UserID: userID}
	}
	shadow.Secret = secret
	shadow.UpdatedAt = time.Now()
	s.credentials[userID] = shadow
	return nil
}

func (r *memCredentials) GetByUserID(ctx context.Context, userID string) (*domain.CredentialShadow, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	shadow, ok := s.credentials[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &shadow, nil
}

type memTemplates memStore

func (r *memTemplates) Append(ctx context.Context, revision *domain.TemplateRevision) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTemplateAppend != nil {
		return s.failTemplateAppend
	}
	revision.ID = s.nextID("tmpl")
	revision.CreatedAt = time.Now()
	s.templates = append(s.templates, *revision)
	return nil
}

func (r *memTemplates) Latest(ctx context.Context, eventID string) (*domain.TemplateRevision, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.templates) - 1; i >= 0; i-- {
		if s.templates[i].EventID == eventID {
			rev := s.templates[i]
			return &rev, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTemplates) ListByEvent(ctx context.Context, eventID string) ([]domain.TemplateRevision, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TemplateRevision
	for _, rev := range s.templates {
		if rev.EventID == eventID {
			out = append(out, rev)
		}
	}
	return out, nil
}

type memAssignments memStore

func (r *memAssignments) Attach(ctx context.Context, eventID, userID string) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAttach != nil {
		return s.failAttach
	}
	if s.assignments[eventID] == nil {
		s.assignments[eventID] = make(map[string]time.Time)
	}
	s.assignments[eventID][userID] = time.Now()
	return nil
}

func (r *memAssignments) Detach(ctx context.Context, eventID, userID string) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments[eventID], userID)
	return nil
}

func (r *memAssignments) ListMembers(ctx context.Context, eventID string, role domain.Role) ([]domain.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.User
	for userID := range s.assignments[eventID] {
		user, ok := s.users[userID]
		if ok && user.Role == role {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memAssignments) IsAssigned(ctx context.Context, eventID, userID string) (bool, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.assignments[eventID][userID]
	return ok, nil
}

type memDonations memStore

func (r *memDonations) Create(ctx context.Context, donation *domain.Donation) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	donation.ID = s.nextID("don")
	donation.CreatedAt = time.Now()
	s.donations = append(s.donations, *donation)
	return nil
}

func (r *memDonations) ListByEvent(ctx context.Context, eventID string) ([]domain.Donation, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Donation
	for _, donation := range s.donations {
		if donation.EventID == eventID {
			out = append(out, donation)
		}
	}
	return out, nil
}
