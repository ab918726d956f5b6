package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/docudefense/internal/client/models"
	"github.com/dmitrijs2005/docudefense/internal/common"
	"github.com/dmitrijs2005/docudefense/internal/logging"
)

// Query is the current directory page request. Page starts at 1.
type Query struct {
	Term  string
	Page  int
	Limit int
}

// DirectoryAPI is the part of the backend client the directory uses.
type DirectoryAPI interface {
	ListUsers(ctx context.Context, page, limit int) ([]models.User, error)
	SearchUsers(ctx context.Context, term string, page, limit int) ([]models.User, error)
	CreateUser(ctx context.Context, input models.UserInput) (*models.User, error)
	UpdateUser(ctx context.Context, id string, input models.UserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// DirectoryService is a paginated, searchable user listing.
//
// Contract:
//   - Load fetches the current query: an empty term lists, otherwise searches.
//   - SetTerm resets the page to 1 and loads once, only if the term changed.
//   - Next/Prev move one page; Prev is disabled at page 1 and Next once a
//     page came back shorter than the limit.
//   - Create reloads the current page exactly once after a successful call.
//   - Delete removes the entry right away and puts it back if the call fails.
type DirectoryService interface {
	Query() Query
	Users() []models.User
	Load(ctx context.Context) ([]models.User, error)
	SetTerm(ctx context.Context, term string) ([]models.User, error)
	Next(ctx context.Context) ([]models.User, error)
	Prev(ctx context.Context) ([]models.User, error)
	CanNext() bool
	CanPrev() bool
	Create(ctx context.Context, input models.UserInput) (*models.User, error)
	Update(ctx context.Context, id string, input models.UserInput) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type directoryService struct {
	mu     sync.Mutex
	api    DirectoryAPI
	logger logging.Logger

	query   Query
	users   []models.User
	hasMore bool
}

func NewDirectoryService(api DirectoryAPI, limit int, logger logging.Logger) DirectoryService {
	if limit < 1 {
		limit = 10
	}
	return &directoryService{
		api:     api,
		logger:  logger,
		query:   Query{Page: 1, Limit: limit},
		hasMore: true,
	}
}

func (s *directoryService) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *directoryService) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

func (s *directoryService) Load(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, s.query)
}

// load fetches q and, on success, makes it the current query.
func (s *directoryService) load(ctx context.Context, q Query) ([]models.User, error) {
	var (
		users []models.User
		err   error
	)
	if q.Term == "" {
		users, err = s.api.ListUsers(ctx, q.Page, q.Limit)
	} else {
		users, err = s.api.SearchUsers(ctx, q.Term, q.Page, q.Limit)
	}
	if err != nil {
		s.logger.Error(ctx, "failed to load users", "term", q.Term, "page", q.Page, "error", err)
		return nil, fmt.Errorf("load users: %w", err)
	}

	s.query = q
	s.users = users
	s.hasMore = len(users) >= q.Limit
	return append([]models.User(nil), users...), nil
}

func (s *directoryService) SetTerm(ctx context.Context, term string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	term = strings.TrimSpace(term)
	if term == s.query.Term {
		return append([]models.User(nil), s.users...), nil
	}

	q := s.query
	q.Term, q.Page = term, 1
	users, err := s.load(ctx, q)
	if err != nil {
		// The new term stands even if the fetch failed; a later Load retries it.
		s.query = q
		s.users = nil
		return nil, err
	}
	return users, nil
}

func (s *directoryService) Next(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasMore {
		return nil, common.ErrNoMorePages
	}
	q := s.query
	q.Page++
	return s.load(ctx, q)
}

func (s *directoryService) Prev(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.query.Page <= 1 {
		return nil, common.ErrFirstPage
	}
	q := s.query
	q.Page--
	return s.load(ctx, q)
}

func (s *directoryService) CanNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

func (s *directoryService) CanPrev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.Page > 1
}

func (s *directoryService) Create(ctx context.Context, input models.UserInput) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	created, err := s.api.CreateUser(ctx, input)
	if err != nil {
		s.logger.Error(ctx, "failed to create user", "email", input.Email, "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	// A create always reloads the unfiltered listing; leaving a search
	// starts over at page 1.
	q := s.query
	if q.Term != "" {
		q = Query{Page: 1, Limit: q.Limit}
	}
	if _, err := s.load(ctx, q); err != nil {
		return created, err
	}
	return created, nil
}

func (s *directoryService) Update(ctx context.Context, id string, input models.UserInput) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrorValidation)
	}

	updated, err := s.api.UpdateUser(ctx, id, input)
	if err != nil {
		s.logger.Error(ctx, "failed to update user", "id", id, "error", err)
		return nil, fmt.Errorf("update user: %w", err)
	}

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i] = *updated
			break
		}
	}
	return updated, nil
}

func (s *directoryService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.users {
		if s.users[i].ID == id {
			idx = i
			break
		}
	}

	var removed models.User
	if idx >= 0 {
		removed = s.users[idx]
		s.users = append(s.users[:idx:idx], s.users[idx+1:]...)
	}

	if err := s.api.DeleteUser(ctx, id); err != nil {
		s.logger.Error(ctx, "failed to delete user", "id", id, "error", err)
		if idx >= 0 {
			s.users = append(s.users[:idx:idx], append([]models.User{removed}, s.users[idx:]...)...)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CanEdit reports whether the logged-in user (by email) owns u and may
// therefore edit or delete it.
func CanEdit(u models.User, email string) bool {
	return email != "" && strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(email))
}
