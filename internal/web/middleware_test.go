package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPProtocolMiddleware(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("test response"))
	})

	wrappedHandler := HTTPProtocolMiddleware(testHandler)

	t.Run("DisablesHTTP3Globally", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/test", nil)

		wrappedHandler.ServeHTTP(recorder, request)

		// Check that Alt-Svc is set to clear (disables HTTP/3)
		assert.Equal(t, "clear", recorder.Header().Get("Alt-Svc"))
	})

	t.Run("AddsStreamHeadersForEventsEndpoint", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/panels/events?stream=tp1", nil)

		wrappedHandler.ServeHTTP(recorder, request)

		assert.Equal(t, "clear", recorder.Header().Get("Alt-Svc"))
		assert.Equal(t, "keep-alive", recorder.Header().Get("Connection"))
		assert.Equal(t, "true", recorder.Header().Get("X-Force-HTTP1"))
	})

	t.Run("LeavesWebsocketEndpointAlone", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/panels/tp1/ws", nil)

		wrappedHandler.ServeHTTP(recorder, request)

		assert.Equal(t, "clear", recorder.Header().Get("Alt-Svc"))
		assert.Empty(t, recorder.Header().Get("Connection"))
		assert.Empty(t, recorder.Header().Get("X-Force-HTTP1"))
	})
}
