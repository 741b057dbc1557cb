package status_test

import (
	"testing"

	"github.com/aretw0/hodr/pkg/status"
	"github.com/stretchr/testify/assert"
)

func TestTables_ErrorRoundTrip(t *testing.T) {
	for httpStatus, code := range status.HTTPErrorToCode {
		assert.Equal(t, httpStatus, status.ErrorCodeToHTTP[code], "code %s", code)
		assert.True(t, code.IsError())
	}
	assert.Len(t, status.ErrorCodeToHTTP, len(status.HTTPErrorToCode))
}

func TestTables_EveryStatusHasOneCode(t *testing.T) {
	seen := make(map[status.Code]int)
	for httpStatus, code := range status.HTTPToCode {
		if prev, dup := seen[code]; dup {
			t.Fatalf("code %s used by both %d and %d", code, prev, httpStatus)
		}
		seen[code] = httpStatus
		assert.Equal(t, httpStatus, code.HTTP())
	}
}

func TestTables_KnownEntries(t *testing.T) {
	assert.Equal(t, status.ResourceNotFound, status.HTTPToCode[404])
	assert.Equal(t, status.Created, status.HTTPToCode[201])
	assert.Equal(t, 400, status.BadRequest.HTTP())
	assert.Equal(t, 226, status.SuccessCodeToHTTP[status.IMUsed])
	assert.NotContains(t, status.SuccessCodeToHTTP, status.Found)
	assert.False(t, status.OK.IsError())
}

func TestErrorFromHTTP(t *testing.T) {
	assert.Equal(t, status.Conflict, status.ErrorFromHTTP(409))
	assert.Equal(t, status.InternalError, status.ErrorFromHTTP(200))
	assert.Equal(t, status.InternalError, status.ErrorFromHTTP(599))
}
