package destination_test

import (
	"testing"

	"github.com/aretw0/hodr/pkg/destination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTemplate(t *testing.T) {
	got, err := destination.ExpandTemplate("/comments/:targetType/thread/:targetId", map[string]any{
		"targetType": "listing",
		"targetId":   5,
	})
	require.NoError(t, err)
	assert.Equal(t, "/comments/listing/thread/5", got)
}

func TestExpandTemplate_EscapesValues(t *testing.T) {
	got, err := destination.ExpandTemplate("/search/:q", map[string]any{"q": "a b/c"})
	require.NoError(t, err)
	assert.Equal(t, "/search/a%20b%2Fc", got)
}

func TestExpandTemplate_MissingParam(t *testing.T) {
	_, err := destination.ExpandTemplate("/users/:id/:tab", map[string]any{"id": "1"})
	assert.ErrorIs(t, err, destination.ErrMissingPathParam)
	assert.ErrorContains(t, err, "tab")
}

func TestJoinURI(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"http://api.local/", "/v1/items"}, "http://api.local/v1/items"},
		{[]string{"", "/v1/items"}, "/v1/items"},
		{[]string{"http://api.local//", "", "items"}, "http://api.local/items"},
		{[]string{"http://api.local"}, "http://api.local"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, destination.JoinURI(tt.parts...))
	}
}
