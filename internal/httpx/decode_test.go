package httpx

import (
	"net/http/httptest"
	"strings"
	"testing"
)

type testRequest struct {
	Publisher string `json:"publisher"`
	ID        int64  `json:"id" validate:"gt=0"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     string
		wantRequest testRequest
	}{
		{name: "valid JSON", body: `{"publisher":"alice","id":3}`, wantRequest: testRequest{Publisher: "alice", ID: 3}},
		{name: "empty body", body: "", wantErr: "request body is empty"},
		{name: "malformed JSON", body: `{"publisher":"alice,"id":3}`, wantErr: "malformed JSON"},
		{name: "unknown field", body: `{"publisher":"alice","id":3,"x":1}`, wantErr: "unknown field"},
		{name: "wrong type", body: `{"publisher":"alice","id":"three"}`, wantErr: "invalid value for field"},
		{name: "multiple objects", body: `{"id":1}{"id":2}`, wantErr: "multiple JSON objects"},
		{name: "too large", body: `{"publisher":"` + strings.Repeat("x", MaxRequestBodySize) + `"}`, wantErr: "request body too large"},
		{name: "fails validation", body: `{"publisher":"alice","id":0}`, wantErr: `field "ID" failed "gt"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/test", strings.NewReader(tt.body))

			got, err := DecodeJSON[testRequest](req)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error to contain %q, got %q", tt.wantErr, err.Error())
				}
				if got != (testRequest{}) {
					t.Errorf("expected zero value on error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantRequest {
				t.Errorf("DecodeJSON() = %+v, want %+v", got, tt.wantRequest)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type cmd struct {
		Tweet int64 `validate:"required,gt=0"`
	}

	if err := Validate(cmd{Tweet: 1}); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
	err := Validate(cmd{})
	if err == nil || !strings.Contains(err.Error(), `"Tweet"`) {
		t.Errorf("Validate() error = %v, want failure on Tweet", err)
	}
}
