package status_test

import (
	"testing"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/status"
	"github.com/stretchr/testify/assert"
)

func execution() *domain.ExecutionContext {
	return domain.NewExecution(domain.OriginID{Name: "test"}, nil, nil, domain.NewAtoms(nil), nil)
}

func TestResolveCanonicalHTTP(t *testing.T) {
	exec := execution()
	assert.Equal(t, 200, status.ResolveCanonicalHTTP(exec, 200))

	exec.SetCanonicalStatus(domain.CanonicalStatus{Code: "accepted"})
	assert.Equal(t, 202, status.ResolveCanonicalHTTP(exec, 200))

	exec.SetCanonicalStatus(status.Canonical(201, "http-destination", "http-req-comments"))
	assert.Equal(t, 201, status.ResolveCanonicalHTTP(exec, 200))
}

func TestRecordCanonical(t *testing.T) {
	exec := execution()
	exec.BeginStep("http-req-comments")

	status.RecordCanonical(exec, 404, "http-destination")
	_, ok := exec.CanonicalStatus()
	assert.False(t, ok)

	status.RecordCanonical(exec, 204, "http-destination")
	cs, ok := exec.CanonicalStatus()
	assert.True(t, ok)
	assert.Equal(t, domain.CanonicalStatus{
		Code:         "no-content",
		HTTPStatus:   204,
		InferredFrom: "http-destination",
		InferredBy:   "http-req-comments",
	}, cs)
}

func TestHTTPForError(t *testing.T) {
	assert.Equal(t, 404, status.HTTPForError("resource-not-found"))
	assert.Equal(t, 500, status.HTTPForError("made-up"))
	assert.Equal(t, 500, status.HTTPForError("ok"))
}
