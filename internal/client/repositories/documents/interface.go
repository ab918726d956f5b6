package documents

import (
	"context"
	"time"

	"github.com/dmitrijs2005/docudefense/internal/client/models"
)

// Repository is the local cache of file listings.
type Repository interface {
	// ReplaceOwner atomically replaces every cached record of ownerID. The
	// owner key is local: the client uses the session email.
	ReplaceOwner(ctx context.Context, ownerID string, records []models.FileRecord) error

	// ListByOwner returns the cached records of ownerID and when they were
	// cached. A zero time means nothing is cached; an empty listing that was
	// cached still carries its time.
	ListByOwner(ctx context.Context, ownerID string) ([]models.FileRecord, time.Time, error)

	// DeleteFilename drops every cached version of filename.
	DeleteFilename(ctx context.Context, ownerID, filename string) error

	// ClearOwner drops the whole cached listing of ownerID.
	ClearOwner(ctx context.Context, ownerID string) error
}
