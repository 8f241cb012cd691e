package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateServiceRequest_ActiveAcceptsNumbers(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{body: `{"active":true}`, want: true},
		{body: `{"active":false}`, want: false},
		{body: `{"active":1}`, want: true},
		{body: `{"active":0}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req UpdateServiceRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			require.NotNil(t, req.Active)
			assert.Equal(t, tt.want, req.Active.Bool())
			assert.False(t, req.IsEmpty())
		})
	}
}

func TestUpdateServiceRequest_ActiveRejectsOtherValues(t *testing.T) {
	for _, body := range []string{`{"active":2}`, `{"active":"yes"}`} {
		var req UpdateServiceRequest
		assert.Error(t, json.Unmarshal([]byte(body), &req), body)
	}
}

func TestUpdateServiceRequest_NullActiveIsAbsent(t *testing.T) {
	var req UpdateServiceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"active":null}`), &req))
	assert.Nil(t, req.Active)
	assert.True(t, req.IsEmpty())
}
