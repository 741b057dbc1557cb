package destination

import (
	"context"
	"fmt"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/status"
	"github.com/tidwall/gjson"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// BlobAdapter reads objects from a gocloud.dev bucket. The path is a URI
// template over the atoms and an object payload; JSON objects are decoded,
// anything else is returned as a string.
type BlobAdapter struct {
	bucket *blob.Bucket
	prefix string
}

// BlobOption configures a BlobAdapter.
type BlobOption func(*BlobAdapter)

// WithPrefix prepends prefix to every object key.
func WithPrefix(prefix string) BlobOption {
	return func(a *BlobAdapter) {
		a.prefix = prefix
	}
}

// NewBlobAdapter creates an adapter reading from bucket.
func NewBlobAdapter(bucket *blob.Bucket, opts ...BlobOption) *BlobAdapter {
	a := &BlobAdapter{bucket: bucket}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OpenBlobAdapter opens bucketURL with the drivers registered in the binary.
func OpenBlobAdapter(ctx context.Context, bucketURL string, opts ...BlobOption) (*BlobAdapter, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return NewBlobAdapter(bucket, opts...), nil
}

// Close releases the bucket.
func (a *BlobAdapter) Close() error {
	return a.bucket.Close()
}

func (a *BlobAdapter) Invoke(ctx context.Context, exec *domain.ExecutionContext, path string, params *domain.RequestParams) (any, error) {
	bindings := exec.Atoms().Merge(exec.Payload())
	if params != nil {
		for k, v := range params.PathParams {
			bindings[k] = v
		}
	}
	key, err := ExpandTemplate(path, bindings)
	if err != nil {
		return nil, domain.NewError(err.Error(), domain.WithCode(string(status.BadRequest)), domain.WithCause(err))
	}
	key = a.prefix + key

	exec.AddJournalEntry(domain.JournalEntry{
		ID:       "blob-key",
		Title:    "Blob Key",
		Entry:    key,
		TypeHint: domain.HintPlaintext,
	})

	data, err := a.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, domain.NewError(fmt.Sprintf("Object '%s' not found", key),
				domain.WithCode(string(status.ResourceNotFound)),
				domain.WithCause(err),
			)
		}
		return nil, domain.NewError("blob read failed",
			domain.WithCode(string(status.BadGateway)),
			domain.WithContextual(map[string]any{"key": key}),
			domain.WithCause(err),
		)
	}

	if gjson.ValidBytes(data) {
		return gjson.ParseBytes(data).Value(), nil
	}
	return string(data), nil
}
