package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/jobtracker-server/internal/model"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantName   string
	}{
		{name: "single object", body: `{"company_name":"Acme"}`, wantName: "Acme"},
		{name: "trailing whitespace", body: "{\"company_name\":\"Acme\"}\n  \n", wantName: "Acme"},
		{name: "empty body", body: ""},
		{name: "unknown fields ignored", body: `{"company_name":"Acme","owner_id":"x"}`, wantName: "Acme"},
		{name: "trailing garbage", body: `{"company_name":"Acme"}garbage`, wantStatus: http.StatusBadRequest},
		{name: "second object", body: `{"company_name":"Acme"}{"company_name":"Globex"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{"company_name":`, wantStatus: http.StatusBadRequest},
		{name: "too large", body: `{"notes":"` + strings.Repeat("x", maxJSONBodyBytes) + `"}`, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var params model.CreateJobParams
			err := decodeJSON(rec, req, &params)

			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.wantName, params.CompanyName)
				return
			}

			var apiErr *model.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.Status)
		})
	}
}
