package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/workoutlog/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddlewareHandler("client-secret")

	testCases := []struct {
		name               string
		path               string
		method             string
		token              string
		expectedStatusCode int
		expectNextCalled   bool
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/version",
			method:             http.MethodGet,
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "SessionStateWithoutToken",
			path:               "/session",
			method:             http.MethodGet,
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "Options",
			path:               "/session/start",
			method:             http.MethodOptions,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "CommandWithoutToken",
			path:               "/session/start",
			method:             http.MethodPost,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "NotAllowedPathWithoutToken",
			path:               "/routines",
			method:             http.MethodGet,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			path:               "/routines",
			method:             http.MethodPost,
			token:              "client-secret",
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "InvalidToken",
			path:               "/session/sets",
			method:             http.MethodPost,
			token:              "client-secreT",
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			require.NoError(t, err)
			if tc.token != "" {
				req.Header.Add(middleware.ClientTokenHeader, tc.token)
			}

			nextCalled := false
			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.expectNextCalled, nextCalled)
		})
	}
}

func TestAuthMiddlewareHandler_NoSecret(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddlewareHandler("")

	req := httptest.NewRequest(http.MethodPost, "/session/start", nil)
	rr := httptest.NewRecorder()
	nextCalled := false
	authMiddleware.AuthCheck()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})).ServeHTTP(rr, req)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rr.Code)
}
