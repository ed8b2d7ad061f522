// Package api implements the HTTP/JSON client for the fileshare backend.
// Every request except login/register carries a bearer token.
package api

import (
	"context"

	"github.com/dvolkovs/fileshare/internal/client/models"
)

// Download is the result of a binary fetch: the materialized bytes plus the
// metadata needed to name and type them locally.
type Download struct {
	Body     []byte
	FileName string
	MimeType string
}

// AuthAPI covers login/register and bearer-token management.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.Credentials, error)
	Register(ctx context.Context, name, email, password string) (*models.Credentials, error)

	// SetToken installs the bearer token attached to subsequent requests.
	// An empty string clears it.
	SetToken(token string)
}

// FilesAPI covers the /files CRUD surface.
type FilesAPI interface {
	ListFiles(ctx context.Context) ([]*models.File, error)
	UploadFile(ctx context.Context, name string, content []byte, folderID int64) (*models.File, error)
	UpdateFile(ctx context.Context, id int64, upd models.FileUpdate) (*models.File, error)
	DeleteFile(ctx context.Context, id int64) error
	DownloadFile(ctx context.Context, id int64) (*Download, error)
}

// FoldersAPI covers the /folders CRUD surface.
type FoldersAPI interface {
	ListFolders(ctx context.Context) ([]*models.Folder, error)
	CreateFolder(ctx context.Context, name string, parentID int64) (*models.Folder, error)
	RenameFolder(ctx context.Context, id int64, name string) (*models.Folder, error)
	DeleteFolder(ctx context.Context, id int64) error
}

// SharesAPI covers the /shares CRUD surface.
type SharesAPI interface {
	ListShares(ctx context.Context) ([]*models.ShareLink, error)
	CreateShare(ctx context.Context, req models.ShareRequest) (*models.ShareLink, error)
	UpdateShare(ctx context.Context, id int64, req models.ShareRequest) (*models.ShareLink, error)
	DeleteShare(ctx context.Context, id int64) error
}

// PasshareAPI covers the /passhare session surface.
type PasshareAPI interface {
	CreateSession(ctx context.Context) (*models.Session, error)
	JoinSession(ctx context.Context, code string) (*models.Session, error)
	GetSession(ctx context.Context, id int64) (*models.Session, error)
	SessionFiles(ctx context.Context, id int64) ([]*models.SessionFile, error)
	SessionParticipants(ctx context.Context, id int64) ([]*models.Participant, error)
	ShareSessionFile(ctx context.Context, sessionID, fileID int64) (*models.SessionFile, error)
	RemoveSessionFile(ctx context.Context, sessionID, sessionFileID int64) error
	DownloadSessionFile(ctx context.Context, sessionID, sessionFileID int64) (*Download, error)
	LeaveSession(ctx context.Context, id int64) error
	EndSession(ctx context.Context, id int64) error
}

// Client is the full backend surface consumed by the stores and services.
type Client interface {
	AuthAPI
	FilesAPI
	FoldersAPI
	SharesAPI
	PasshareAPI
}
