package docsource

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"
)

type stubStore struct {
	files       []FileMeta
	content     map[string][]byte
	listErr     error
	downloadErr error

	listCalls     int
	downloadCalls int
}

func (s *stubStore) List(ctx context.Context, folderID string) ([]FileMeta, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.files, nil
}

func (s *stubStore) Download(ctx context.Context, fileID string) ([]byte, error) {
	s.downloadCalls++
	if s.downloadErr != nil {
		return nil, s.downloadErr
	}
	return s.content[fileID], nil
}

var _ Store = (*stubStore)(nil)

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) Extract(data []byte) (string, error) {
	return s.text, s.err
}

var _ Extractor = stubExtractor{}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestResolveStaticGroupUsesURLsAsReferences(t *testing.T) {
	resolver := NewResolver(nil, nil, testLogger())
	group := BuiltinGroups()[0]

	corpus := resolver.Resolve(context.Background(), group)

	if !corpus.OK {
		t.Fatal("expected static resolution to succeed")
	}
	if corpus.Text != "" {
		t.Fatalf("expected no fetched text for a static group, got %q", corpus.Text)
	}
	if !reflect.DeepEqual(corpus.Names, group.URLs) {
		t.Fatalf("expected names %v, got %v", group.URLs, corpus.Names)
	}
	if got := corpus.ContextBlock(); !strings.Contains(got, group.URLs[0]) {
		t.Fatalf("expected context block to carry the URLs, got %q", got)
	}
}

func TestResolveDriveTextFile(t *testing.T) {
	store := &stubStore{
		files:   []FileMeta{{ID: "f1", Name: "notes.txt", MimeType: MimeText}},
		content: map[string][]byte{"f1": []byte("hello")},
	}
	resolver := NewResolver(store, stubExtractor{}, testLogger())

	corpus := resolver.Resolve(context.Background(), DriveGroup("folder-1"))

	if !corpus.OK {
		t.Fatal("expected drive resolution to succeed")
	}
	if !strings.Contains(corpus.Text, "hello") {
		t.Fatalf("expected corpus to contain the file content, got %q", corpus.Text)
	}
	if !strings.Contains(corpus.Text, "--- notes.txt ---") {
		t.Fatalf("expected a per-file header, got %q", corpus.Text)
	}
	if !reflect.DeepEqual(corpus.Names, []string{"notes.txt"}) {
		t.Fatalf("expected names [notes.txt], got %v", corpus.Names)
	}
}

func TestResolveDrivePDFUsesExtractor(t *testing.T) {
	store := &stubStore{
		files:   []FileMeta{{ID: "f1", Name: "report.pdf", MimeType: MimePDF}},
		content: map[string][]byte{"f1": []byte("%PDF-raw-bytes")},
	}
	resolver := NewResolver(store, stubExtractor{text: "extracted page text"}, testLogger())

	corpus := resolver.Resolve(context.Background(), DriveGroup("folder-1"))

	if !corpus.OK {
		t.Fatal("expected drive resolution to succeed")
	}
	if !strings.Contains(corpus.Text, "extracted page text") {
		t.Fatalf("expected extracted pdf text in corpus, got %q", corpus.Text)
	}
}

func TestResolveDriveSkipsUnrecognizedMimeTypes(t *testing.T) {
	store := &stubStore{
		files: []FileMeta{
			{ID: "f1", Name: "photo.png", MimeType: "image/png"},
			{ID: "f2", Name: "notes.txt", MimeType: MimeText},
		},
		content: map[string][]byte{"f2": []byte("hello")},
	}
	resolver := NewResolver(store, stubExtractor{}, testLogger())

	corpus := resolver.Resolve(context.Background(), DriveGroup("folder-1"))

	if !reflect.DeepEqual(corpus.Names, []string{"notes.txt"}) {
		t.Fatalf("expected the png skipped silently, got names %v", corpus.Names)
	}
	if store.downloadCalls != 1 {
		t.Fatalf("expected only the text file downloaded, got %d downloads", store.downloadCalls)
	}
}

func TestResolveDriveListFailureYieldsAbsentCorpus(t *testing.T) {
	store := &stubStore{listErr: errors.New("access denied")}
	resolver := NewResolver(store, stubExtractor{}, testLogger())

	corpus := resolver.Resolve(context.Background(), DriveGroup("folder-1"))

	if corpus.OK {
		t.Fatal("expected absent corpus on storage failure")
	}
	if len(corpus.Names) != 0 {
		t.Fatalf("expected empty names on storage failure, got %v", corpus.Names)
	}
}

func TestResolveDriveDownloadFailureYieldsAbsentCorpus(t *testing.T) {
	store := &stubStore{
		files:       []FileMeta{{ID: "f1", Name: "notes.txt", MimeType: MimeText}},
		downloadErr: errors.New("stream interrupted"),
	}
	resolver := NewResolver(store, stubExtractor{}, testLogger())

	corpus := resolver.Resolve(context.Background(), DriveGroup("folder-1"))

	if corpus.OK {
		t.Fatal("expected absent corpus on download failure")
	}
}

func TestResolveDriveCachesFolderContent(t *testing.T) {
	store := &stubStore{
		files:   []FileMeta{{ID: "f1", Name: "notes.txt", MimeType: MimeText}},
		content: map[string][]byte{"f1": []byte("hello")},
	}
	resolver := NewResolver(store, stubExtractor{}, testLogger())
	group := DriveGroup("folder-1")

	first := resolver.Resolve(context.Background(), group)
	second := resolver.Resolve(context.Background(), group)

	if store.listCalls != 1 {
		t.Fatalf("expected one listing within the TTL, got %d", store.listCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical cached corpus, got %+v then %+v", first, second)
	}
}

func TestResolveDriveFailureIsNotCached(t *testing.T) {
	store := &stubStore{listErr: errors.New("access denied")}
	resolver := NewResolver(store, stubExtractor{}, testLogger())
	group := DriveGroup("folder-1")

	resolver.Resolve(context.Background(), group)

	store.listErr = nil
	store.files = []FileMeta{{ID: "f1", Name: "notes.txt", MimeType: MimeText}}
	store.content = map[string][]byte{"f1": []byte("hello")}

	corpus := resolver.Resolve(context.Background(), group)
	if !corpus.OK {
		t.Fatal("expected a fresh fetch after a failed resolution")
	}
}

func TestResolveDriveWithoutStore(t *testing.T) {
	resolver := NewResolver(nil, nil, testLogger())

	corpus := resolver.Resolve(context.Background(), DriveGroup("folder-1"))

	if corpus.OK {
		t.Fatal("expected absent corpus without a configured store")
	}
}
