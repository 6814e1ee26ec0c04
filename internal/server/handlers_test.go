package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionID_BindsUUID(t *testing.T) {
	want := uuid.New()

	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"canonical", want.String(), true},
		{"garbage", "not-a-uuid", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/sessions/x/messages", nil)
			r.SetPathValue("id", tt.value)
			rec := httptest.NewRecorder()

			id, ok := sessionID(rec, r)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, want, id)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			assert.Equal(t, uuid.Nil, id)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestDescribeValidation(t *testing.T) {
	v := newValidator()

	assert.Equal(t, "content is required", describeValidation(v.Struct(MessageRequest{})))
	assert.NoError(t, v.Struct(MessageRequest{Content: "Will it rain in Tokyo?"}))
}
