// Package docsource resolves the active knowledge scope into a textual
// corpus plus the list of human-readable source names behind it.
package docsource

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type Kind string

const (
	// KindStatic groups carry documentation URLs that are passed to the
	// model as references, never fetched.
	KindStatic Kind = "static"
	// KindDrive groups resolve the files of a Google Drive folder.
	KindDrive Kind = "drive"
)

// Group is one user-selectable knowledge scope. Immutable once built;
// switching scopes replaces the active group, it never mutates one.
type Group struct {
	ID       string
	Name     string
	Kind     Kind
	URLs     []string
	FolderID string
}

// Corpus is the resolved content of a group. For static groups Text stays
// empty and Names carries the URL references. OK is false when the backing
// store could not be read; callers treat that as "no knowledge base", a
// terminal display state rather than a retryable error.
type Corpus struct {
	Text  string
	Names []string
	OK    bool
}

// ContextBlock returns the text to interpolate into an answer prompt.
func (c Corpus) ContextBlock() string {
	if c.Text != "" {
		return c.Text
	}
	return strings.Join(c.Names, ", ")
}

var geminiDocsURLs = []string{
	"https://ai.google.dev/gemini-api/docs",
	"https://ai.google.dev/gemini-api/docs/quickstart",
	"https://ai.google.dev/gemini-api/docs/models",
	"https://ai.google.dev/gemini-api/docs/pricing",
}

var modelCapabilityURLs = []string{
	"https://ai.google.dev/gemini-api/docs/text-generation",
	"https://ai.google.dev/gemini-api/docs/image-generation",
	"https://ai.google.dev/gemini-api/docs/function-calling",
	"https://ai.google.dev/gemini-api/docs/grounding",
}

// BuiltinGroups returns the static URL catalogs, in selection order.
func BuiltinGroups() []Group {
	return []Group{
		{ID: "gemini-overview", Name: "Gemini Docs Overview", Kind: KindStatic, URLs: geminiDocsURLs},
		{ID: "model-capabilities", Name: "Model Capabilities", Kind: KindStatic, URLs: modelCapabilityURLs},
	}
}

// DriveGroup builds the scope backed by a Google Drive folder.
func DriveGroup(folderID string) Group {
	return Group{ID: "drive-folder", Name: "Google Drive Folder", Kind: KindDrive, FolderID: folderID}
}

// Resolver turns a group into its corpus. Implementations never let a
// storage failure escape; they return Corpus{OK: false} instead.
type Resolver interface {
	Resolve(ctx context.Context, group Group) Corpus
}

// driveCacheTTL matches the original knowledge-base refresh window: a
// fresh fetch after expiry re-downloads every file in the folder.
const driveCacheTTL = 600 * time.Second

// DocumentResolver resolves static groups directly and Drive groups
// through a Store, caching folder content per (store identity, folder id).
type DocumentResolver struct {
	store   Store
	extract Extractor
	storeID string
	cache   *gocache.Cache
	logger  *log.Logger
}

func NewResolver(store Store, extractor Extractor, logger *log.Logger) *DocumentResolver {
	if logger == nil {
		logger = log.Default()
	}
	if extractor == nil {
		extractor = PDFExtractor{}
	}

	return &DocumentResolver{
		store:   store,
		extract: extractor,
		storeID: uuid.NewString(),
		cache:   gocache.New(driveCacheTTL, driveCacheTTL),
		logger:  logger,
	}
}

func (r *DocumentResolver) Resolve(ctx context.Context, group Group) Corpus {
	switch group.Kind {
	case KindStatic:
		return Corpus{Names: append([]string(nil), group.URLs...), OK: true}
	case KindDrive:
		return r.resolveDrive(ctx, group.FolderID)
	default:
		r.logger.Printf("unknown group kind %q for group %s", group.Kind, group.ID)
		return Corpus{}
	}
}

func (r *DocumentResolver) resolveDrive(ctx context.Context, folderID string) Corpus {
	if r.store == nil {
		return Corpus{}
	}

	key := r.storeID + "|" + folderID
	if cached, found := r.cache.Get(key); found {
		return cached.(Corpus)
	}

	corpus, err := fetchFolder(ctx, r.store, r.extract, folderID)
	if err != nil {
		r.logger.Printf("resolve drive folder %s: %v", folderID, err)
		return Corpus{}
	}

	r.cache.Set(key, corpus, gocache.DefaultExpiration)
	return corpus
}

func fetchFolder(ctx context.Context, store Store, extract Extractor, folderID string) (Corpus, error) {
	files, err := store.List(ctx, folderID)
	if err != nil {
		return Corpus{}, err
	}

	var sb strings.Builder
	names := make([]string, 0, len(files))
	for _, file := range files {
		text, ok, err := fileText(ctx, store, extract, file)
		if err != nil {
			return Corpus{}, err
		}
		if !ok {
			continue
		}
		sb.WriteString("--- ")
		sb.WriteString(file.Name)
		sb.WriteString(" ---\n")
		sb.WriteString(text)
		sb.WriteString("\n\n")
		names = append(names, file.Name)
	}

	return Corpus{Text: sb.String(), Names: names, OK: true}, nil
}

// fileText decodes one file by its declared mime type. Unrecognized types
// are skipped silently (ok == false).
func fileText(ctx context.Context, store Store, extract Extractor, file FileMeta) (string, bool, error) {
	switch file.MimeType {
	case MimePDF:
		data, err := store.Download(ctx, file.ID)
		if err != nil {
			return "", false, err
		}
		text, err := extract.Extract(data)
		if err != nil {
			return "", false, err
		}
		return text, true, nil
	case MimeText:
		data, err := store.Download(ctx, file.ID)
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	default:
		return "", false, nil
	}
}

var _ Resolver = (*DocumentResolver)(nil)
