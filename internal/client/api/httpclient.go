package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/dvolkovs/fileshare/internal/client/models"
)

// HTTPClient talks to the backend REST API. It is safe for concurrent use;
// the token is guarded so a login can race with an in-flight poll.
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for the API reachable under baseURL
// (e.g. "http://localhost:8080/api"). No request timeout is set; callers
// control deadlines through the context.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// errorBody is the backend's JSON error envelope: {"error": "..."}.
type errorBody struct {
	Error string `json:"error"`
}

// mapStatus translates an HTTP error status into a sentinel error,
// preserving the server's message when one was sent.
func mapStatus(status int, msg string) error {
	var sentinel error
	switch status {
	case http.StatusBadRequest:
		sentinel = ErrValidation
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrNotOwner
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	default:
		if msg == "" {
			msg = http.StatusText(status)
		}
		return fmt.Errorf("api error (status %d): %s", status, msg)
	}
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// doJSON performs a JSON request. body may be nil; out may be nil when the
// response payload is irrelevant.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	resp, err := c.do(ctx, method, path, query, reqBody, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return mapStatus(resp.StatusCode, eb.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// doBinary performs an authenticated binary fetch. 401/403 map to
// ErrUnauthorized; any other non-2xx maps to ErrTransfer.
func (c *HTTPClient) doBinary(ctx context.Context, path string) (*Download, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrTransfer, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransfer, err)
	}

	return &Download{
		Body:     data,
		FileName: dispositionFileName(resp.Header.Get("Content-Disposition")),
		MimeType: resp.Header.Get("Content-Type"),
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" && body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func dispositionFileName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// ---- auth ----

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Credentials, error) {
	req := map[string]string{"email": email, "password": password}
	var creds models.Credentials
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, req, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.Credentials, error) {
	req := map[string]string{"name": name, "email": email, "password": password}
	var creds models.Credentials
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, req, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// ---- files ----

func (c *HTTPClient) ListFiles(ctx context.Context) ([]*models.File, error) {
	var files []*models.File
	if err := c.doJSON(ctx, http.MethodGet, "/files", nil, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *HTTPClient) UploadFile(ctx context.Context, name string, content []byte, folderID int64) (*models.File, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := fw.Write(content); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if folderID != 0 {
		if err := mw.WriteField("folderId", strconv.FormatInt(folderID, 10)); err != nil {
			return nil, fmt.Errorf("build multipart: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/files", nil, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return nil, mapStatus(resp.StatusCode, eb.Error)
	}

	var f models.File
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &f, nil
}

func (c *HTTPClient) UpdateFile(ctx context.Context, id int64, upd models.FileUpdate) (*models.File, error) {
	q := url.Values{}
	if upd.Name != nil {
		q.Set("name", *upd.Name)
	}
	if upd.Starred != nil {
		q.Set("starred", strconv.FormatBool(*upd.Starred))
	}
	var f models.File
	if err := c.doJSON(ctx, http.MethodPatch, "/files/"+strconv.FormatInt(id, 10), q, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/files/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *HTTPClient) DownloadFile(ctx context.Context, id int64) (*Download, error) {
	return c.doBinary(ctx, "/files/"+strconv.FormatInt(id, 10)+"/download")
}

// ---- folders ----

func (c *HTTPClient) ListFolders(ctx context.Context) ([]*models.Folder, error) {
	var folders []*models.Folder
	if err := c.doJSON(ctx, http.MethodGet, "/folders", nil, nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (c *HTTPClient) CreateFolder(ctx context.Context, name string, parentID int64) (*models.Folder, error) {
	q := url.Values{"name": {name}}
	if parentID != 0 {
		q.Set("parentId", strconv.FormatInt(parentID, 10))
	}
	var f models.Folder
	if err := c.doJSON(ctx, http.MethodPost, "/folders", q, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) RenameFolder(ctx context.Context, id int64, name string) (*models.Folder, error) {
	q := url.Values{"name": {name}}
	var f models.Folder
	if err := c.doJSON(ctx, http.MethodPatch, "/folders/"+strconv.FormatInt(id, 10), q, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) DeleteFolder(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/folders/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// ---- shares ----

func (c *HTTPClient) ListShares(ctx context.Context) ([]*models.ShareLink, error) {
	var shares []*models.ShareLink
	if err := c.doJSON(ctx, http.MethodGet, "/shares", nil, nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

func shareQuery(req models.ShareRequest, includeFileID bool) url.Values {
	q := url.Values{}
	if includeFileID {
		q.Set("fileId", strconv.FormatInt(req.FileID, 10))
	}
	if req.ShareType != "" {
		q.Set("shareType", req.ShareType)
	}
	if len(req.Permissions) > 0 {
		q.Set("permissions", strings.Join(req.Permissions, ","))
	}
	if req.ExpiryEpochMs != 0 {
		q.Set("expiryEpochMs", strconv.FormatInt(req.ExpiryEpochMs, 10))
	}
	if req.Password != "" {
		q.Set("password", req.Password)
	}
	if req.CreatedBy != "" {
		q.Set("createdBy", req.CreatedBy)
	}
	return q
}

func (c *HTTPClient) CreateShare(ctx context.Context, req models.ShareRequest) (*models.ShareLink, error) {
	var s models.ShareLink
	if err := c.doJSON(ctx, http.MethodPost, "/shares", shareQuery(req, true), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) UpdateShare(ctx context.Context, id int64, req models.ShareRequest) (*models.ShareLink, error) {
	var s models.ShareLink
	if err := c.doJSON(ctx, http.MethodPatch, "/shares/"+strconv.FormatInt(id, 10), shareQuery(req, false), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) DeleteShare(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/shares/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// ---- passhare ----

func sessionPath(id int64, rest string) string {
	return "/passhare/sessions/" + strconv.FormatInt(id, 10) + rest
}

func (c *HTTPClient) CreateSession(ctx context.Context) (*models.Session, error) {
	var s models.Session
	if err := c.doJSON(ctx, http.MethodPost, "/passhare/sessions", nil, nil, &s); err != nil {
		return nil, err
	}
	// Create and join responses omit the "active" field; a session returned
	// by either is active by definition.
	s.Active = true
	return &s, nil
}

func (c *HTTPClient) JoinSession(ctx context.Context, code string) (*models.Session, error) {
	q := url.Values{"code": {code}}
	var s models.Session
	if err := c.doJSON(ctx, http.MethodPost, "/passhare/sessions/join", q, nil, &s); err != nil {
		return nil, err
	}
	s.Active = true
	return &s, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	var s models.Session
	if err := c.doJSON(ctx, http.MethodGet, sessionPath(id, ""), nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) SessionFiles(ctx context.Context, id int64) ([]*models.SessionFile, error) {
	var files []*models.SessionFile
	if err := c.doJSON(ctx, http.MethodGet, sessionPath(id, "/files"), nil, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *HTTPClient) SessionParticipants(ctx context.Context, id int64) ([]*models.Participant, error) {
	var participants []*models.Participant
	if err := c.doJSON(ctx, http.MethodGet, sessionPath(id, "/participants"), nil, nil, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

func (c *HTTPClient) ShareSessionFile(ctx context.Context, sessionID, fileID int64) (*models.SessionFile, error) {
	q := url.Values{"fileId": {strconv.FormatInt(fileID, 10)}}
	var sf models.SessionFile
	if err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "/files"), q, nil, &sf); err != nil {
		return nil, err
	}
	return &sf, nil
}

func (c *HTTPClient) RemoveSessionFile(ctx context.Context, sessionID, sessionFileID int64) error {
	return c.doJSON(ctx, http.MethodDelete, sessionPath(sessionID, "/files/"+strconv.FormatInt(sessionFileID, 10)), nil, nil, nil)
}

func (c *HTTPClient) DownloadSessionFile(ctx context.Context, sessionID, sessionFileID int64) (*Download, error) {
	return c.doBinary(ctx, sessionPath(sessionID, "/files/"+strconv.FormatInt(sessionFileID, 10)+"/download"))
}

func (c *HTTPClient) LeaveSession(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPost, sessionPath(id, "/leave"), nil, nil, nil)
}

func (c *HTTPClient) EndSession(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPost, sessionPath(id, "/end"), nil, nil, nil)
}
