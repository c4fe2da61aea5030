// Package ghsync pulls workflow documents from a GitHub repository and
// publishes the generated catalog index back to it.
package ghsync

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
)

// RESTClient is the subset of the go-gh REST client the syncer needs.
type RESTClient interface {
	DoWithContext(ctx context.Context, method string, path string, body io.Reader, response any) error
}

// RemoteFile is one workflow document fetched from the remote repository.
type RemoteFile struct {
	Path    string
	Content []byte
}

type contentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

type contentFile struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

// Syncer mirrors workflow documents between GitHub and the local catalog.
type Syncer struct {
	client RESTClient
	repo   string
	branch string
	root   string
	logger *slog.Logger
}

// NewSyncer creates a syncer against "owner/name". root is the directory in
// the remote repository that holds the category directories.
func NewSyncer(logger *slog.Logger, repo, branch, root string) (*Syncer, error) {
	client, err := api.NewRESTClient(api.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	return NewSyncerWithClient(logger, client, repo, branch, root), nil
}

// NewSyncerWithClient wires an existing REST client, used by tests.
func NewSyncerWithClient(logger *slog.Logger, client RESTClient, repo, branch, root string) *Syncer {
	return &Syncer{
		client: client,
		repo:   repo,
		branch: branch,
		root:   root,
		logger: logger.With("module", "ghsync", "repository", repo),
	}
}

// Repository returns the "owner/name" slug the syncer targets.
func (s *Syncer) Repository() string {
	return s.repo
}

func (s *Syncer) contentsPath(remotePath string) string {
	endpoint := fmt.Sprintf("repos/%s/contents/%s", s.repo, remotePath)
	if s.branch != "" {
		endpoint += "?ref=" + s.branch
	}

	return endpoint
}

// Pull fetches every workflow document under <root>/<category>/*.json.
func (s *Syncer) Pull(ctx context.Context) ([]RemoteFile, error) {
	var categories []contentEntry
	if err := s.client.DoWithContext(ctx, http.MethodGet, s.contentsPath(s.root), nil, &categories); err != nil {
		return nil, fmt.Errorf("failed to list catalog root %s: %w", s.root, err)
	}

	files := make([]RemoteFile, 0)

	for _, category := range categories {
		if category.Type != "dir" {
			continue
		}

		var entries []contentEntry
		if err := s.client.DoWithContext(ctx, http.MethodGet, s.contentsPath(category.Path), nil, &entries); err != nil {
			return nil, fmt.Errorf("failed to list category %s: %w", category.Name, err)
		}

		for _, entry := range entries {
			if entry.Type != "file" || !strings.HasSuffix(entry.Name, ".json") {
				continue
			}

			content, err := s.fetchFile(ctx, entry.Path)
			if err != nil {
				return nil, err
			}

			files = append(files, RemoteFile{
				Path:    path.Join(category.Name, entry.Name),
				Content: content,
			})
		}
	}

	s.logger.InfoContext(ctx, "Pulled workflow documents", "count", len(files))

	return files, nil
}

func (s *Syncer) fetchFile(ctx context.Context, remotePath string) ([]byte, error) {
	var file contentFile
	if err := s.client.DoWithContext(ctx, http.MethodGet, s.contentsPath(remotePath), nil, &file); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", remotePath, err)
	}

	content, err := decodeContent(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", remotePath, err)
	}

	return content, nil
}

// UploadCatalog creates or updates a file in the remote repository. The
// existing blob SHA is looked up first so updates do not conflict.
func (s *Syncer) UploadCatalog(ctx context.Context, remotePath, message string, content []byte) error {
	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}

	if s.branch != "" {
		payload["branch"] = s.branch
	}

	var existing contentFile
	if err := s.client.DoWithContext(ctx, http.MethodGet, s.contentsPath(remotePath), nil, &existing); err == nil && existing.SHA != "" {
		payload["sha"] = existing.SHA
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode upload payload: %w", err)
	}

	endpoint := fmt.Sprintf("repos/%s/contents/%s", s.repo, remotePath)
	if err := s.client.DoWithContext(ctx, http.MethodPut, endpoint, strings.NewReader(string(body)), nil); err != nil {
		return fmt.Errorf("failed to upload %s: %w", remotePath, err)
	}

	s.logger.InfoContext(ctx, "Uploaded catalog file", "path", remotePath)

	return nil
}

// decodeContent decodes a contents-API payload. GitHub wraps base64 content
// in newlines.
func decodeContent(file contentFile) ([]byte, error) {
	if file.Encoding != "" && file.Encoding != "base64" {
		return nil, fmt.Errorf("unsupported content encoding %q", file.Encoding)
	}

	cleaned := strings.ReplaceAll(file.Content, "\n", "")

	return base64.StdEncoding.DecodeString(cleaned)
}
