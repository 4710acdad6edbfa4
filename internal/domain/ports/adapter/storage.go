package adapter

import (
	"context"
	"io"
)

// RetrievalTier selects the cold-storage retrieval service level.
type RetrievalTier string

const (
	TierExpedited RetrievalTier = "Expedited"
	TierStandard  RetrievalTier = "Standard"
)

// HotStore wraps object storage with immediate read access.
type HotStore interface {
	// Download copies an object to a local file, creating parent directories.
	Download(ctx context.Context, bucket, key, localPath string) error
	Upload(ctx context.Context, bucket, key string, body io.Reader) error
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, bucket, key string) error
}

// ColdStore wraps archival storage. Retrieval is asynchronous: InitiateRetrieval
// returns immediately and completion arrives minutes to hours later via a
// notification carrying the retrieval id and the description we attached.
type ColdStore interface {
	Archive(ctx context.Context, description string, body io.Reader) (archiveID string, err error)
	InitiateRetrieval(ctx context.Context, archiveID string, tier RetrievalTier, description string) (retrievalID string, err error)
	FetchRetrievalOutput(ctx context.Context, retrievalID string) (io.ReadCloser, error)
	// DeleteArchive is idempotent: deleting an already-deleted archive is nil.
	DeleteArchive(ctx context.Context, archiveID string) error
}
