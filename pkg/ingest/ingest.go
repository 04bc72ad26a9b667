package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/adrianliechti/lahde/pkg/scraper"
	"github.com/adrianliechti/lahde/pkg/vectorstore"
)

const DefaultStoreName = "Web Ingest"

var (
	ErrMissingURL = errors.New("missing required field: url")
	ErrInvalidURL = errors.New("invalid url")
)

var unsafeChars = regexp.MustCompile(`(?i)[^a-z0-9_.-]+`)

type Request struct {
	URL string `json:"url"`

	VectorStoreID   string `json:"vector_store_id,omitempty"`
	VectorStoreName string `json:"vector_store_name,omitempty"`

	Filename string `json:"filename,omitempty"`
}

type Result struct {
	VectorStoreID string

	File       vectorstore.File
	Attachment *vectorstore.Attachment
}

// Service copies web pages into a vector store as plain text documents.
type Service struct {
	scraper scraper.Provider
	store   vectorstore.Provider

	storeName string
}

type Option func(*Service)

func WithStoreName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.storeName = name
		}
	}
}

func New(scraper scraper.Provider, store vectorstore.Provider, options ...Option) *Service {
	s := &Service{
		scraper: scraper,
		store:   store,

		storeName: DefaultStoreName,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Ingest fetches req.URL, uploads its text prefixed with the source URL and
// attaches the file to the requested store. A store is created when none is
// given. Fetch failures wrap scraper.ErrFetch.
func (s *Service) Ingest(ctx context.Context, req Request) (*Result, error) {
	req.URL = strings.TrimSpace(req.URL)

	if req.URL == "" {
		return nil, ErrMissingURL
	}

	u, err := url.Parse(req.URL)

	if err != nil || u.Host == "" {
		return nil, ErrInvalidURL
	}

	doc, err := s.scraper.Scrape(ctx, req.URL, nil)

	if err != nil {
		return nil, err
	}

	text := "Source: " + req.URL + "\n\n" + doc.Text

	storeID := req.VectorStoreID

	if storeID == "" {
		name := req.VectorStoreName

		if name == "" {
			name = s.storeName
		}

		store, err := s.store.CreateStore(ctx, name)

		if err != nil {
			return nil, fmt.Errorf("create vector store: %w", err)
		}

		storeID = store.ID

		slog.Info("created vector store", "id", storeID, "name", name)
	}

	name := req.Filename

	if name == "" {
		name = Filename(u)
	}

	file, err := s.store.UploadFile(ctx, name, []byte(text))

	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	attachment, err := s.store.AttachFile(ctx, storeID, file.ID)

	if err != nil {
		return nil, fmt.Errorf("attach file: %w", err)
	}

	slog.Info("ingested url", "url", req.URL, "vector_store", storeID, "file", file.ID)

	return &Result{
		VectorStoreID: storeID,

		File:       *file,
		Attachment: attachment,
	}, nil
}

// Filename derives a file name from the host and path of u.
func Filename(u *url.URL) string {
	return unsafeChars.ReplaceAllString(u.Hostname()+u.Path, "-") + ".txt"
}
