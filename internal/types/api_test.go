//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request BuildRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid request",
			request: BuildRequest{UserID: "550e8400-e29b-41d4-a716-446655440000", PreviewOnly: true},
		},
		{
			name:    "missing user id",
			request: BuildRequest{},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name:    "user id not a uuid",
			request: BuildRequest{UserID: "jane"},
			wantErr: true,
			errMsg:  "uuid",
		},
		{
			name: "version name too long",
			request: BuildRequest{
				UserID:      "550e8400-e29b-41d4-a716-446655440000",
				VersionName: strings.Repeat("v", 201),
			},
			wantErr: true,
			errMsg:  "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBuildRequest_ValidationUsesJSONNames(t *testing.T) {
	err := (&BuildRequest{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'user_id'")
}

func TestBuildRequest_ParsedUserID(t *testing.T) {
	req := BuildRequest{UserID: "550e8400-e29b-41d4-a716-446655440000"}
	id, err := req.ParsedUserID()
	require.NoError(t, err)
	assert.Equal(t, uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"), id)
}

func TestBuildRequest_Decode(t *testing.T) {
	var req BuildRequest
	require.NoError(t, json.Unmarshal([]byte(`{"user_id": "abc", "preview_only": true}`), &req))
	assert.Equal(t, "abc", req.UserID)
	assert.True(t, req.PreviewOnly)
}

func TestBuildResponse_JSON(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	data, err := json.Marshal(BuildResponse{BuildID: id, Status: BuildQueued})
	require.NoError(t, err)
	assert.JSONEq(t, `{"build_id": "550e8400-e29b-41d4-a716-446655440000", "status": "queued"}`, string(data))
}
