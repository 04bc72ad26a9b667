package openai

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/adrianliechti/lahde/pkg/vectorstore"

	"github.com/openai/openai-go/v3"
)

var _ vectorstore.Provider = (*VectorStore)(nil)

type VectorStore struct {
	*Config

	files        openai.FileService
	vectorStores openai.VectorStoreService
}

func NewVectorStore(url string, options ...Option) (*VectorStore, error) {
	cfg := &Config{
		url: url,
	}

	for _, option := range options {
		option(cfg)
	}

	return &VectorStore{
		Config: cfg,

		files:        openai.NewFileService(cfg.Options()...),
		vectorStores: openai.NewVectorStoreService(cfg.Options()...),
	}, nil
}

func (s *VectorStore) CreateStore(ctx context.Context, name string) (*vectorstore.Store, error) {
	store, err := s.vectorStores.New(ctx, openai.VectorStoreNewParams{
		Name: openai.String(name),
	})

	if err != nil {
		return nil, convertError(err)
	}

	return &vectorstore.Store{
		ID:   store.ID,
		Name: store.Name,
	}, nil
}

func (s *VectorStore) UploadFile(ctx context.Context, name string, content []byte) (*vectorstore.File, error) {
	file, err := s.files.New(ctx, openai.FileNewParams{
		File:    openai.File(bytes.NewReader(content), name, "text/plain"),
		Purpose: openai.FilePurposeAssistants,
	})

	if err != nil {
		return nil, convertError(err)
	}

	return &vectorstore.File{
		ID:   file.ID,
		Name: name,
	}, nil
}

func (s *VectorStore) AttachFile(ctx context.Context, storeID, fileID string) (*vectorstore.Attachment, error) {
	attached, err := s.vectorStores.Files.New(ctx, storeID, openai.VectorStoreFileNewParams{
		FileID: fileID,
	})

	if err != nil {
		return nil, convertError(err)
	}

	result := &vectorstore.Attachment{
		ID:     attached.ID,
		Status: string(attached.Status),
	}

	if raw := attached.RawJSON(); json.Valid([]byte(raw)) {
		result.Raw = json.RawMessage(raw)
	}

	return result, nil
}
