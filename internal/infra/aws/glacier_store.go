package aws

import (
	"context"
	"errors"
	"io"

	"genomics-annotation-service/internal/domain/ports/adapter"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glacier"
	"github.com/aws/aws-sdk-go-v2/service/glacier/types"
)

var _ adapter.ColdStore = (*GlacierStore)(nil)

// GlacierStore is the cold-storage adapter over one vault. Retrieval
// completion notifications go to the configured SNS topic, which feeds the
// thaw queue.
type GlacierStore struct {
	client       *glacier.Client
	vault        string
	thawTopicARN string
}

func NewGlacierStore(client *glacier.Client, vault, thawTopicARN string) *GlacierStore {
	return &GlacierStore{client: client, vault: vault, thawTopicARN: thawTopicARN}
}

func (g *GlacierStore) Archive(ctx context.Context, description string, body io.Reader) (string, error) {
	out, err := g.client.UploadArchive(ctx, &glacier.UploadArchiveInput{
		AccountId:          awssdk.String("-"),
		VaultName:          awssdk.String(g.vault),
		ArchiveDescription: awssdk.String(description),
		Body:               body,
	})
	if err != nil {
		return "", err
	}
	return awssdk.ToString(out.ArchiveId), nil
}

func (g *GlacierStore) InitiateRetrieval(ctx context.Context, archiveID string, tier adapter.RetrievalTier, description string) (string, error) {
	out, err := g.client.InitiateJob(ctx, &glacier.InitiateJobInput{
		AccountId: awssdk.String("-"),
		VaultName: awssdk.String(g.vault),
		JobParameters: &types.JobParameters{
			Type:        awssdk.String("archive-retrieval"),
			ArchiveId:   awssdk.String(archiveID),
			Tier:        awssdk.String(string(tier)),
			Description: awssdk.String(description),
			SNSTopic:    awssdk.String(g.thawTopicARN),
		},
	})
	if err != nil {
		return "", err
	}
	return awssdk.ToString(out.JobId), nil
}

func (g *GlacierStore) FetchRetrievalOutput(ctx context.Context, retrievalID string) (io.ReadCloser, error) {
	out, err := g.client.GetJobOutput(ctx, &glacier.GetJobOutputInput{
		AccountId: awssdk.String("-"),
		VaultName: awssdk.String(g.vault),
		JobId:     awssdk.String(retrievalID),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

func (g *GlacierStore) DeleteArchive(ctx context.Context, archiveID string) error {
	_, err := g.client.DeleteArchive(ctx, &glacier.DeleteArchiveInput{
		AccountId: awssdk.String("-"),
		VaultName: awssdk.String(g.vault),
		ArchiveId: awssdk.String(archiveID),
	})

	// Deleting an already-deleted archive is not an error.
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}
