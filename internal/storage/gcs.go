package storage

import (
	"context"
	"fmt"
	"path"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
)

// GCSClientFactory builds the underlying GCS client. The default factory
// authenticates via Application Default Credentials; tests inject clients
// pointed at a fake server.
type GCSClientFactory interface {
	NewClient(ctx context.Context) (*storage.Client, error)
}

// ADCClientFactory creates clients using Application Default Credentials.
type ADCClientFactory struct{}

// NewClient creates a GCS client with ambient credentials.
func (ADCClientFactory) NewClient(ctx context.Context) (*storage.Client, error) {
	return storage.NewClient(ctx)
}

// GCSProvider implements the Provider interface for Google Cloud Storage.
type GCSProvider struct {
	Client     *storage.Client
	BucketName string
	Prefix     string
	Logger     *zap.Logger
}

// NewGCSProvider creates a client via factory (nil means ADC) and verifies
// the bucket is reachable, so a misconfigured bucket fails at startup
// instead of at the end of a run.
func NewGCSProvider(ctx context.Context, bucketName, prefix string, factory GCSClientFactory, logger *zap.Logger) (*GCSProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if factory == nil {
		factory = ADCClientFactory{}
	}

	client, err := factory.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	bkt := client.Bucket(bucketName)
	if _, err := bkt.Attrs(ctx); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("Failed to close GCS client after bucket existence check failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to get GCS bucket '%s' attributes: %w", bucketName, err)
	}

	return &GCSProvider{
		Client:     client,
		BucketName: bucketName,
		Prefix:     prefix,
		Logger:     logger,
	}, nil
}

// Save uploads the given data to a specific object in the GCS bucket. The
// configured prefix, if any, is joined in front of the object name.
func (g *GCSProvider) Save(ctx context.Context, objectName string, data []byte) error {
	if g.Prefix != "" {
		objectName = path.Join(g.Prefix, objectName)
	}
	wc := g.Client.Bucket(g.BucketName).Object(objectName).NewWriter(ctx)

	if _, err := wc.Write(data); err != nil {
		// Close still runs to release the writer; the write failure stays
		// the primary error.
		if closeErr := wc.Close(); closeErr != nil {
			g.log().Warn("Failed to close GCS writer after write failure", zap.Error(closeErr))
		}
		return fmt.Errorf("failed to write data to GCS object %s: %w", objectName, err)
	}

	// Close must be called to finalize the upload. It flushes any buffered data.
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for object %s: %w", objectName, err)
	}

	return nil
}

// Close releases the underlying client.
func (g *GCSProvider) Close() error {
	return g.Client.Close()
}

func (g *GCSProvider) log() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}
