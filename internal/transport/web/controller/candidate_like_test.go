package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swipefeed/swipefeed/internal/command"
	"github.com/swipefeed/swipefeed/internal/domain"
)

func TestCandidateLikeToggle_ServeHTTP(t *testing.T) {
	cases := []struct {
		name       string
		result     domain.LikeResult
		err        error
		wantStatus int
	}{
		{
			name:       "liked_and_matched",
			result:     domain.LikeResult{Liked: true, Matched: true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unliked",
			result:     domain.LikeResult{Liked: false},
			wantStatus: http.StatusOK,
		},
		{
			name:       "upstream_failure",
			err:        fmt.Errorf("toggling like: %w", domain.ErrFetchFailed),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unexpected_error",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotReq command.ToggleLikeRequest
			controller := CandidateLikeToggle{
				ToggleLikeCmd: commandFunc[command.ToggleLikeRequest, domain.LikeResult](
					func(_ context.Context, req command.ToggleLikeRequest) (domain.LikeResult, error) {
						gotReq = req
						return tc.result, tc.err
					},
				),
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/candidates/u42/like", nil)
			req = mux.SetURLVars(req, map[string]string{"candidate_id": "u42"})
			req = testContext()(req)
			rec := httptest.NewRecorder()

			controller.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, command.ToggleLikeRequest{InstallationID: "install-1", CandidateID: "u42"}, gotReq)

			if tc.wantStatus == http.StatusOK {
				var got domain.LikeResult
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, tc.result, got)
			}
		})
	}
}
