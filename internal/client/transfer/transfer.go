package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dvolkovs/fileshare/internal/client/api"
)

// Source fetches authenticated binary content from the backend.
// Satisfied by the api client.
type Source interface {
	DownloadFile(ctx context.Context, id int64) (*api.Download, error)
	DownloadSessionFile(ctx context.Context, sessionID, sessionFileID int64) (*api.Download, error)
}

// Service is the transfer facade: it materializes downloads into revocable
// handles and writes them to disk on request.
type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

// FetchFile downloads an owned file into a local handle.
func (s *Service) FetchFile(ctx context.Context, fileID int64) (*Handle, error) {
	d, err := s.src.DownloadFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return newHandle(d.FileName, d.MimeType, d.Body), nil
}

// FetchSessionFile downloads a session-shared file into a local handle.
// Any session participant may download; the server counts the download.
func (s *Service) FetchSessionFile(ctx context.Context, sessionID, sessionFileID int64) (*Handle, error) {
	d, err := s.src.DownloadSessionFile(ctx, sessionID, sessionFileID)
	if err != nil {
		return nil, err
	}
	return newHandle(d.FileName, d.MimeType, d.Body), nil
}

// Save persists the handle's bytes under dir/suggestedName and releases the
// handle, successful or not. An empty suggestedName falls back to the
// server-provided name, then to "download". Returns the written path.
func (s *Service) Save(h *Handle, dir, suggestedName string) (string, error) {
	defer h.Release()

	data := h.Bytes()
	if data == nil {
		return "", fmt.Errorf("%w: handle already released", api.ErrTransfer)
	}

	name := suggestedName
	if name == "" {
		name = h.Name()
	}
	if name == "" {
		name = "download"
	}
	// Strip any path components the server may have smuggled into the name.
	name = filepath.Base(name)

	if dir != "" {
		if err := os.MkdirAll(dir, 0o770); err != nil {
			return "", fmt.Errorf("create download dir: %w", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}
