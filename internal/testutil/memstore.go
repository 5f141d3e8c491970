package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/jobtracker-server/internal/model"
)

var errMissingOwner = errors.New("scope has no owner")

// MemJobStore is an in-memory model.JobStore.
type MemJobStore struct {
	mu    sync.Mutex
	jobs  map[uuid.UUID]model.Job
	clock func() time.Time
}

func NewMemJobStore() *MemJobStore {
	var tick int64
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &MemJobStore{
		jobs: make(map[uuid.UUID]model.Job),
		// strictly increasing so creation order is observable
		clock: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Millisecond)
		},
	}
}

// Len returns the number of stored jobs across all owners.
func (s *MemJobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *MemJobStore) Create(_ context.Context, job model.Job) (model.Job, error) {
	if job.OwnerID == uuid.Nil {
		return model.Job{}, errMissingOwner
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	job.ID = uuid.New()
	job.CreatedAt = now
	job.UpdatedAt = now
	s.jobs[job.ID] = job
	return job, nil
}

func (s *MemJobStore) List(_ context.Context, scope model.Scope) ([]model.Job, error) {
	if scope.OwnerID == uuid.Nil {
		return nil, errMissingOwner
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Job{}
	for _, job := range s.jobs {
		if job.OwnerID == scope.OwnerID {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemJobStore) Get(_ context.Context, scope model.Scope) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(scope)
}

func (s *MemJobStore) Update(_ context.Context, scope model.Scope, fields model.JobFields) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.lookup(scope)
	if err != nil {
		return model.Job{}, err
	}
	if fields.CompanyName != nil {
		job.CompanyName = *fields.CompanyName
	}
	if fields.JobTitle != nil {
		job.JobTitle = *fields.JobTitle
	}
	if fields.Status != nil {
		job.Status = model.JobStatus(*fields.Status)
	}
	job.ApplicationDate = fields.ApplicationDate
	job.Notes = fields.Notes
	job.UpdatedAt = s.clock()
	s.jobs[job.ID] = job
	return job, nil
}

func (s *MemJobStore) Delete(_ context.Context, scope model.Scope) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.lookup(scope)
	if errors.Is(err, model.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	delete(s.jobs, job.ID)
	return 1, nil
}

func (s *MemJobStore) lookup(scope model.Scope) (model.Job, error) {
	if scope.OwnerID == uuid.Nil {
		return model.Job{}, errMissingOwner
	}
	job, ok := s.jobs[scope.JobID]
	if !ok || job.OwnerID != scope.OwnerID {
		return model.Job{}, model.ErrNotFound
	}
	return job, nil
}

// MemUserStore is an in-memory model.UserStore.
type MemUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func NewMemUserStore() *MemUserStore {
	return &MemUserStore{users: make(map[uuid.UUID]model.User)}
}

func (s *MemUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *MemUserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *MemUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return model.User{}, model.ErrAlreadyExists
		}
	}
	s.users[user.ID] = user
	return user, nil
}

// MemSessionStore is an in-memory model.SessionStore.
type MemSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]model.Session
}

func NewMemSessionStore() *MemSessionStore {
	return &MemSessionStore{sessions: make(map[uuid.UUID]model.Session)}
}

func (s *MemSessionStore) Create(_ context.Context, session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *MemSessionStore) GetByID(_ context.Context, id uuid.UUID) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return model.Session{}, model.ErrNotFound
	}
	return session, nil
}

func (s *MemSessionStore) GetByJTI(_ context.Context, jti string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.JTI == jti {
			return session, nil
		}
	}
	return model.Session{}, model.ErrNotFound
}

func (s *MemSessionStore) GetByRotatedFrom(_ context.Context, jti string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.RotatedFromJTI != nil && *session.RotatedFromJTI == jti {
			return session, nil
		}
	}
	return model.Session{}, model.ErrNotFound
}

func (s *MemSessionStore) Revoke(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || session.RevokedAt != nil {
		return false, nil
	}
	now := time.Now()
	session.RevokedAt = &now
	s.sessions[id] = session
	return true, nil
}

func (s *MemSessionStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	ids := make([]uuid.UUID, 0)
	for id, session := range s.sessions {
		if session.UserID == userID {
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()

	for _, id := range ids {
		if _, err := s.Revoke(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

type memObject struct {
	data        []byte
	contentType string
}

// MemStorage is an in-memory model.Storage.
type MemStorage struct {
	mu      sync.Mutex
	objects map[string]memObject
}

func NewMemStorage() *MemStorage {
	return &MemStorage{objects: make(map[string]memObject)}
}

// Has reports whether an object is stored under key.
func (s *MemStorage) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *MemStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memObject{data: data, contentType: contentType}
	return nil
}

func (s *MemStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *MemStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemStorage) Stat(_ context.Context, key string) (model.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return model.ObjectInfo{}, model.ErrNotFound
	}
	return model.ObjectInfo{Key: key, Size: int64(len(obj.data)), ContentType: obj.contentType}, nil
}
