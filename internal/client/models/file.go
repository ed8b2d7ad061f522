package models

import "time"

// File is a local mirror of an owned file's metadata.
type File struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Size          int64     `json:"size"`
	MimeType      string    `json:"mimeType"`
	Starred       bool      `json:"starred"`
	DownloadCount int64     `json:"downloadCount"`
	UploadedAt    time.Time `json:"uploadedAt"`
	FolderID      *int64    `json:"folderId,omitempty"`
	OwnerID       int64     `json:"ownerId"`
}

// FileUpdate carries the mutable fields of a file. Nil means "leave as is".
type FileUpdate struct {
	Name    *string
	Starred *bool
}

// Folder groups files; folders nest via ParentID.
type Folder struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId,omitempty"`
}

// ShareLink is a persistent sharing grant for a file. The client treats it
// as an opaque server record.
type ShareLink struct {
	ID            int64    `json:"id"`
	FileID        int64    `json:"fileId"`
	ShareType     string   `json:"shareType"`
	Permissions   []string `json:"permissions,omitempty"`
	ExpiryEpochMs int64    `json:"expiryEpochMs,omitempty"`
	CreatedBy     string   `json:"createdBy,omitempty"`
	URL           string   `json:"url,omitempty"`
}

// ShareRequest is the payload for creating or updating a share link.
// Zero values are omitted from the request.
type ShareRequest struct {
	FileID        int64
	ShareType     string
	Permissions   []string
	ExpiryEpochMs int64
	Password      string
	CreatedBy     string
}
