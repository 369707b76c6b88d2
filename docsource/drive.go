package docsource

import (
	"context"
	"fmt"
	"io"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// FileMeta describes one file in a folder listing.
type FileMeta struct {
	ID       string
	Name     string
	MimeType string
}

// Store is the remote storage collaborator: folder listing plus per-file
// byte download.
type Store interface {
	List(ctx context.Context, folderID string) ([]FileMeta, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// DriveStore reads non-trashed files directly under a folder, with a
// read-only credential scope.
type DriveStore struct {
	svc *drive.Service
}

func NewDriveStore(ctx context.Context, credentialsFile string) (*DriveStore, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &DriveStore{svc: svc}, nil
}

func (s *DriveStore) List(ctx context.Context, folderID string) ([]FileMeta, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)
	res, err := s.svc.Files.List().
		Q(query).
		Fields("files(id, name, mimeType)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list drive folder: %w", err)
	}

	files := make([]FileMeta, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, FileMeta{ID: f.Id, Name: f.Name, MimeType: f.MimeType})
	}
	return files, nil
}

func (s *DriveStore) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download drive file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read drive file body: %w", err)
	}
	return data, nil
}

var _ Store = (*DriveStore)(nil)
