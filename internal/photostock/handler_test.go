package photostock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FawkesguyD/Love/internal/platform/logger"
)

func newHandlerServer(t *testing.T, keys map[string][]byte) *httptest.Server {
	t.Helper()
	svc, _ := newTestService(keys)
	srv := httptest.NewServer(NewRouter(svc, logger.New("photostock-test")))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func errorCode(t *testing.T, data []byte) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	return env.Error.Code
}

func TestGetImageServesInline(t *testing.T) {
	srv := newHandlerServer(t, map[string][]byte{"sunset.jpg": []byte("image-bytes")})

	resp, data := get(t, srv.URL+"/images/sunset")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte("image-bytes"), data)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, `inline; filename="sunset.jpg"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
}

func TestGetImageAttachmentDisposition(t *testing.T) {
	srv := newHandlerServer(t, map[string][]byte{"sunset.jpg": []byte("x")})

	resp, _ := get(t, srv.URL+"/images/sunset?display=false")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="sunset.jpg"`, resp.Header.Get("Content-Disposition"))

	resp, data := get(t, srv.URL+"/images/sunset?display=maybe")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, data))
}

func TestGetImageRejectsUnsafeNames(t *testing.T) {
	srv := newHandlerServer(t, nil)

	for _, name := range []string{"has.dot", "has%20space", "%D0%BA%D0%B0%D0%B4%D1%80"} {
		resp, data := get(t, srv.URL+"/images/"+name)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "name=%s", name)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, data), "name=%s", name)
	}
}

func TestGetImageNotFound(t *testing.T) {
	srv := newHandlerServer(t, map[string][]byte{"other.jpg": nil})

	resp, data := get(t, srv.URL+"/images/sunset")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, data))
}

func TestGetImageAmbiguousConflict(t *testing.T) {
	srv := newHandlerServer(t, map[string][]byte{
		"sunset.jpg": nil,
		"sunset.png": nil,
	})

	resp, data := get(t, srv.URL+"/images/sunset")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, data))
}
