package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/docudefense/internal/client/models"
)

// Client is the transport-agnostic contract of the DocuDefense backend.
type Client interface {
	ListUsers(ctx context.Context, page, limit int) ([]models.User, error)
	SearchUsers(ctx context.Context, term string, page, limit int) ([]models.User, error)
	CreateUser(ctx context.Context, input models.UserInput) (*models.User, error)
	UpdateUser(ctx context.Context, id string, input models.UserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error

	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	FetchUserIDByEmail(ctx context.Context, email string) (string, error)

	UploadFile(ctx context.Context, userID, filename string, content io.Reader) (*models.UploadResult, error)
	ListUserFiles(ctx context.Context, userID string) ([]models.FileRecord, error)
	DownloadFile(ctx context.Context, userID, filename string) (*models.Download, error)
	DeleteFile(ctx context.Context, userID, filename string) error

	Ping(ctx context.Context) error
}

// TokenSource yields the current session token, or "" when logged out.
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}
