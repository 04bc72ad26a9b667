package vectorstore

import (
	"context"
	"encoding/json"
)

// Provider manages the upstream vector stores used by file search.
type Provider interface {
	CreateStore(ctx context.Context, name string) (*Store, error)

	UploadFile(ctx context.Context, name string, content []byte) (*File, error)
	AttachFile(ctx context.Context, storeID, fileID string) (*Attachment, error)
}

type Store struct {
	ID   string
	Name string
}

type File struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Attachment is the provider's record of a file added to a store, kept as
// received.
type Attachment struct {
	ID     string
	Status string

	Raw json.RawMessage
}
