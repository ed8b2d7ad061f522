package models

import "time"

// Session is an ephemeral, code-addressable grouping of participants for
// ad-hoc file exchange. Active is true until the creator ends the session;
// once a refresh observes Active == false the session is terminal.
type Session struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	CreatorID int64     `json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Active    bool      `json:"active"`
}

// SessionFile is a file's membership record within a session. It references
// a file that existed at share time; the backing file may be deleted outside
// the session, in which case a download surfaces the server's error.
type SessionFile struct {
	ID             int64     `json:"id"`
	FileID         int64     `json:"fileId"`
	FileName       string    `json:"fileName"`
	FileSize       int64     `json:"fileSize"`
	FileMimeType   string    `json:"fileMimeType"`
	SharedByUserID int64     `json:"sharedByUserId"`
	SharedAt       time.Time `json:"sharedAt"`
	DownloadCount  int64     `json:"downloadCount"`
}

// Participant is a user's membership record within a session.
type Participant struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}
