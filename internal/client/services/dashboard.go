package services

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/docudefense/internal/client/client"
	"github.com/dmitrijs2005/docudefense/internal/client/models"
	"github.com/dmitrijs2005/docudefense/internal/client/repositories/documents"
	"github.com/dmitrijs2005/docudefense/internal/client/versions"
	"github.com/dmitrijs2005/docudefense/internal/common"
	"github.com/dmitrijs2005/docudefense/internal/filex"
	"github.com/dmitrijs2005/docudefense/internal/logging"
)

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// DocumentsAPI is the part of the backend client the dashboard uses.
type DocumentsAPI interface {
	UploadFile(ctx context.Context, userID, filename string, content io.Reader) (*models.UploadResult, error)
	ListUserFiles(ctx context.Context, userID string) ([]models.FileRecord, error)
	DownloadFile(ctx context.Context, userID, filename string) (*models.Download, error)
	DeleteFile(ctx context.Context, userID, filename string) error
}

// Owner identifies the logged-in user. The email keys the local cache so
// it can be read without the backend; the id addresses backend calls.
type Owner interface {
	Email() string
	UserID(ctx context.Context) (string, error)
}

// Listing is what the dashboard shows: the grouped documents and whether
// they came from the local cache instead of the backend.
type Listing struct {
	Registry *versions.Registry
	Stale    bool
	CachedAt time.Time
}

// DashboardService manages the logged-in user's documents.
type DashboardService interface {
	Refresh(ctx context.Context) (*Listing, error)
	Listing() *Listing
	Upload(ctx context.Context, path string) (*models.UploadResult, error)
	Download(ctx context.Context, filename string, version int) (string, error)
	Delete(ctx context.Context, filename string) error
	Toggle(filename string) bool
	Expanded(filename string) bool
	Forget(ctx context.Context) error
}

type dashboardService struct {
	mu          sync.Mutex
	api         DocumentsAPI
	owner       Owner
	cache       documents.Repository
	downloadDir string
	logger      logging.Logger

	listing  *Listing
	listedBy string
	expanded map[string]bool
}

func NewDashboardService(api DocumentsAPI, owner Owner, cache documents.Repository, downloadDir string, logger logging.Logger) DashboardService {
	return &dashboardService{
		api:         api,
		owner:       owner,
		cache:       cache,
		downloadDir: downloadDir,
		logger:      logger,
		expanded:    map[string]bool{},
	}
}

// Refresh lists the user's documents. A successful listing replaces the
// local cache; when the backend cannot be reached the cached listing is
// returned with Stale set.
func (s *dashboardService) Refresh(ctx context.Context) (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(ctx)
}

func (s *dashboardService) refresh(ctx context.Context) (*Listing, error) {
	email := s.owner.Email()
	if email == "" {
		return nil, common.ErrNotLoggedIn
	}

	records, err := s.fetch(ctx)
	if errors.Is(err, client.ErrUnavailable) {
		return s.fromCache(ctx, email, err)
	}
	if err != nil {
		s.logger.Error(ctx, "failed to list documents", "error", err)
		return nil, err
	}

	reg := versions.Group(records)
	if cerr := reg.Conflicts(); cerr != nil {
		s.logger.Warn(ctx, "backend returned conflicting versions", "error", cerr)
	}
	if cerr := s.cache.ReplaceOwner(ctx, email, records); cerr != nil {
		s.logger.Warn(ctx, "failed to cache documents", "error", cerr)
	}

	s.listing, s.listedBy = &Listing{Registry: reg}, email
	s.pruneExpanded()
	return s.listing, nil
}

func (s *dashboardService) fetch(ctx context.Context) ([]models.FileRecord, error) {
	userID, err := s.owner.UserID(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.api.ListUserFiles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return records, nil
}

func (s *dashboardService) fromCache(ctx context.Context, email string, cause error) (*Listing, error) {
	records, cachedAt, err := s.cache.ListByOwner(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("read cached documents: %w", err)
	}
	if cachedAt.IsZero() {
		return nil, cause
	}

	s.logger.Warn(ctx, "backend unavailable, showing cached documents", "cached_at", cachedAt, "error", cause)
	s.listing = &Listing{Registry: versions.Group(records), Stale: true, CachedAt: cachedAt}
	s.listedBy = email
	s.pruneExpanded()
	return s.listing, nil
}

// Listing returns the last listing of the current owner, or nil.
func (s *dashboardService) Listing() *Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listedBy != s.owner.Email() {
		return nil
	}
	return s.listing
}

// Upload sends a local PDF and refreshes the listing once.
func (s *dashboardService) Upload(ctx context.Context, path string) (*models.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := openPDF(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	userID, err := s.owner.UserID(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.api.UploadFile(ctx, userID, filepath.Base(path), f)
	if err != nil {
		s.logger.Error(ctx, "upload failed", "path", path, "error", err)
		return nil, fmt.Errorf("upload: %w", err)
	}
	s.logger.Info(ctx, "document uploaded", "filename", res.Filename, "version", int(res.Version))

	if _, err := s.refresh(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// openPDF opens path after checking the extension and the file header.
// The returned file is positioned at the start.
func openPDF(path string) (*os.File, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("%w: %s", common.ErrorNotPDF, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	head, err := bufio.NewReader(f).Peek(len(pdfMagic))
	if err != nil || !bytes.Equal(head, pdfMagic) {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", common.ErrorNotPDF, filepath.Base(path))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seek %s: %w", path, err)
	}
	return f, nil
}

// Download saves the current version of filename into the download
// directory and returns the written path. The backend stores only the
// latest upload under a filename, so version must be 0 or the current
// version; an older version known to the listing is refused.
func (s *dashboardService) Download(ctx context.Context, filename string, version int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listing == nil || s.listedBy != s.owner.Email() {
		if _, err := s.refresh(ctx); err != nil {
			return "", err
		}
	}

	reg := s.listing.Registry
	cur, ok := reg.Current(filename)
	if !ok {
		return "", fmt.Errorf("%w: %s", common.ErrorNotFound, filename)
	}
	if version != 0 && version != cur.Version {
		if _, ok := reg.Version(filename, version); !ok {
			return "", fmt.Errorf("%w: %s version %d", common.ErrorNotFound, filename, version)
		}
		return "", fmt.Errorf("%w: %s version %d: backend serves only the current version (%d)",
			common.ErrorValidation, filename, version, cur.Version)
	}

	userID, err := s.owner.UserID(ctx)
	if err != nil {
		return "", err
	}

	dl, err := s.api.DownloadFile(ctx, userID, filename)
	if err != nil {
		s.logger.Error(ctx, "download failed", "filename", filename, "error", err)
		return "", fmt.Errorf("download: %w", err)
	}
	defer dl.Body.Close()

	dir, err := filex.EnsureDir(s.downloadDir)
	if err != nil {
		return "", err
	}
	path, n, err := filex.Save(dir, models.DisplayName(dl.Filename), dl.Body)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", filename, err)
	}

	s.logger.Info(ctx, "document downloaded", "filename", filename, "version", cur.Version, "path", path, "bytes", n)
	return path, nil
}

// Delete removes every version of filename. The entry disappears from the
// listing before the backend call; the cache is only touched once the
// backend confirmed. A failed call refreshes the listing so it reflects the
// backend (or the untouched cache) again.
func (s *dashboardService) Delete(ctx context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, err := s.owner.UserID(ctx)
	if err != nil {
		return err
	}

	var removed []models.FileRecord
	if s.listing != nil && s.listedBy == s.owner.Email() {
		removed = s.listing.Registry.Versions(filename)
		s.listing.Registry.Remove(filename)
	}
	delete(s.expanded, filename)

	if err := s.api.DeleteFile(ctx, userID, filename); err != nil {
		s.logger.Error(ctx, "delete failed", "filename", filename, "error", err)
		if _, rerr := s.refresh(ctx); rerr != nil {
			s.logger.Warn(ctx, "refresh after failed delete", "error", rerr)
		}
		return fmt.Errorf("delete %s: %w", filename, err)
	}

	if cerr := s.cache.DeleteFilename(ctx, s.owner.Email(), filename); cerr != nil {
		s.logger.Warn(ctx, "failed to drop cached document", "filename", filename, "error", cerr)
	}
	s.logger.Info(ctx, "document deleted", "filename", filename, "versions", len(removed))
	return nil
}

// Toggle flips whether the version history of filename is shown and
// returns the new state.
func (s *dashboardService) Toggle(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expanded[filename] = !s.expanded[filename]
	if !s.expanded[filename] {
		delete(s.expanded, filename)
		return false
	}
	return true
}

func (s *dashboardService) Expanded(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[filename]
}

// Forget drops the in-memory listing and the local cache of the current
// owner, e.g. after the account was deleted.
func (s *dashboardService) Forget(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listing, s.listedBy = nil, ""
	s.expanded = map[string]bool{}
	if email := s.owner.Email(); email != "" {
		return s.cache.ClearOwner(ctx, email)
	}
	return nil
}

func (s *dashboardService) pruneExpanded() {
	for name := range s.expanded {
		if _, ok := s.listing.Registry.Current(name); !ok {
			delete(s.expanded, name)
		}
	}
}
