package destination_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/hodr/internal/testkit"
	"github.com/aretw0/hodr/pkg/destination"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"

	_ "gocloud.dev/blob/memblob"
)

func newExecution(payload any, atoms map[string]any) *domain.ExecutionContext {
	exec := domain.NewExecution(domain.OriginID{Name: "dest", Input: "test", Variant: "function"},
		payload, nil, domain.NewAtoms(atoms), nil)
	exec.BeginStep("call")
	return exec
}

func TestDestination_WithoutAdapter(t *testing.T) {
	d := destination.New("pending")
	out, err := d.Invoke(context.Background(), newExecution("payload", nil), "/a", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDestination_Targets(t *testing.T) {
	d := destination.New("api").
		AddTarget("b", "/b", nil).
		AddTarget("a", "/a", &domain.RequestParams{Method: domain.MethodPost})

	tgt, ok := d.Target("a")
	require.True(t, ok)
	assert.Equal(t, "/a", tgt.Path)
	assert.Equal(t, []string{"a", "b"}, []string{d.Targets()[0].Name, d.Targets()[1].Name})
}

func TestHTTPAdapter_ShapesPayload(t *testing.T) {
	client := testkit.NewFakeHTTPClient().Respond("http://api.local/comments/listing/thread/5", domain.MethodPost,
		&domain.HTTPResponse{StatusCode: 201, Body: map[string]any{"content": map[string]any{"id": 1}}})
	d := destination.New("api").HTTP("http://api.local/", client, destination.WithHeader("X-Api-Key", "k"))

	exec := newExecution(map[string]any{
		"threadId": map[string]any{"targetType": "listing", "targetId": "5"},
		"comment":  map[string]any{"text": "hi"},
	}, nil)
	out, err := d.Invoke(context.Background(), exec, "/comments/:targetType/thread/:targetId", &domain.RequestParams{
		Method:         domain.MethodPost,
		PathParamsFrom: "threadId",
		BodyFrom:       "comment",
	})
	require.NoError(t, err)

	resp := out.(*domain.HTTPResponse)
	assert.Equal(t, 201, resp.StatusCode)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]any{"text": "hi"}, reqs[0].Body)
	assert.Equal(t, "k", reqs[0].Headers["X-Api-Key"])

	journal := exec.CurrentStep().Metadata.Journal
	require.Len(t, journal, 1)
	assert.Equal(t, "parameterized-uri", journal[0].ID)
	assert.Equal(t, "/comments/listing/thread/5", journal[0].Entry)

	cs, ok := exec.CanonicalStatus()
	require.True(t, ok)
	assert.Equal(t, 201, cs.HTTPStatus)
	assert.Equal(t, "http-destination", cs.InferredFrom)
	assert.Equal(t, "call", cs.InferredBy)
}

func TestHTTPAdapter_ForwardsRequestPayload(t *testing.T) {
	client := testkit.NewFakeHTTPClient()
	d := destination.New("api").HTTP("", client)

	exec := newExecution(&domain.HTTPRequest{
		Method: domain.MethodGet,
		URI:    "/incoming",
		Params: map[string]string{"id": "42"},
		Body:   "ignored on GET",
	}, nil)
	out, err := d.Invoke(context.Background(), exec, "/items/:id", nil)
	require.NoError(t, err)

	resp := out.(*domain.HTTPResponse)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "/items/42", client.Requests()[0].URI)
	assert.Nil(t, client.Requests()[0].Body)

	_, ok := exec.CanonicalStatus()
	assert.False(t, ok)
}

func TestHTTPAdapter_UsesAtomsAndLiteralParams(t *testing.T) {
	client := testkit.NewFakeHTTPClient()
	d := destination.New("api").HTTP("", client)

	exec := newExecution(nil, map[string]any{"tenant": "t1"})
	_, err := d.Invoke(context.Background(), exec, "/:tenant/:kind", &domain.RequestParams{
		PathParams: map[string]any{"kind": "users"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/t1/users", client.Requests()[0].URI)
	assert.Equal(t, domain.MethodGet, client.Requests()[0].Method)
}

func TestHTTPAdapter_MissingParam(t *testing.T) {
	d := destination.New("api").HTTP("", testkit.NewFakeHTTPClient())
	_, err := d.Invoke(context.Background(), newExecution(nil, nil), "/:id", nil)

	var herr *domain.HodrError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, string(status.BadRequest), herr.Code)
	assert.ErrorIs(t, err, destination.ErrMissingPathParam)
}

func TestFSAdapter(t *testing.T) {
	root := t.TempDir()
	d := destination.New("static").FileSystem(root)

	exec := newExecution("../../etc/passwd", nil)
	out, err := d.Invoke(context.Background(), exec, "", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "etc", "passwd"), out)

	hint, _ := exec.Meta(domain.MetaPayloadTypeHint)
	assert.Equal(t, domain.PayloadStaticContent, hint)
}

func TestBlobAdapter(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	defer bucket.Close()

	require.NoError(t, bucket.WriteAll(ctx, "docs/7.json", []byte(`{"title":"seven","pages":3}`), nil))
	require.NoError(t, bucket.WriteAll(ctx, "docs/readme.txt", []byte("plain text"), nil))

	d := destination.New("docs").Blob(bucket, destination.WithPrefix("docs/"))

	t.Run("Decodes JSON", func(t *testing.T) {
		out, err := d.Invoke(ctx, newExecution(map[string]any{"id": 7}, nil), ":id.json", nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"title": "seven", "pages": float64(3)}, out)
	})

	t.Run("Returns Text", func(t *testing.T) {
		out, err := d.Invoke(ctx, newExecution(nil, nil), "readme.txt", nil)
		require.NoError(t, err)
		assert.Equal(t, "plain text", out)
	})

	t.Run("Missing Object", func(t *testing.T) {
		_, err := d.Invoke(ctx, newExecution(nil, nil), "nope.json", nil)
		var herr *domain.HodrError
		require.ErrorAs(t, err, &herr)
		assert.Equal(t, string(status.ResourceNotFound), herr.Code)
	})
}
