package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collage/service/internal/admission"
	"github.com/collage/service/internal/config"
	"github.com/collage/service/internal/storage"
	"github.com/collage/service/internal/upload"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterForEnv(t, "development")
}

func newTestRouterForEnv(t *testing.T, appEnv string) http.Handler {
	t.Helper()
	local, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	svc, err := upload.NewService(admission.NewController(nil), storage.New(nil, local), upload.Options{
		Bucket:            "communal-collage",
		TempDir:           t.TempDir(),
		MaxBytes:          1 << 20,
		AllowedExtensions: []string{"jpg", "png"},
	})
	require.NoError(t, err)
	return NewRouter(upload.NewHandler(svc), &config.Config{
		AppEnv:      appEnv,
		CORSOrigins: []string{"http://localhost:5001"},
	})
}

func do(t *testing.T, h http.Handler, req *http.Request) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func uploadRequest(t *testing.T, token, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("token", token))
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func issueToken(t *testing.T, h http.Handler) string {
	t.Helper()
	code, env := do(t, h, httptest.NewRequest(http.MethodPost, "/api/generate-token", nil))
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Token  string `json:"token"`
		Expiry string `json:"expiry"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	require.NotEmpty(t, data.Expiry)
	return data.Token
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)
	code, env := do(t, h, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"storageMode":"local-fallback"`)
}

func TestUploadListReset(t *testing.T) {
	h := newTestRouter(t)
	token := issueToken(t, h)

	code, env := do(t, h, uploadRequest(t, token, "cat.png", "meow"))
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.Contains(t, string(env.Data), `"size":4`)

	code, env = do(t, h, uploadRequest(t, token, "cat.png", "meow"))
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token expired or used", env.Error)

	code, env = do(t, h, httptest.NewRequest(http.MethodGet, "/api/images", nil))
	require.Equal(t, http.StatusOK, code)
	var listed struct {
		Images []storage.Object `json:"images"`
		Count  int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Equal(t, 1, listed.Count)
	require.Len(t, listed.Images, 1)
	assert.Equal(t, int64(4), listed.Images[0].Size)

	code, _ = do(t, h, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	require.Equal(t, http.StatusOK, code)

	_, env = do(t, h, httptest.NewRequest(http.MethodGet, "/api/images", nil))
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Equal(t, 0, listed.Count)
	assert.Empty(t, listed.Images)
}

func TestUploadRejections(t *testing.T) {
	h := newTestRouter(t)

	code, env := do(t, h, uploadRequest(t, "bogus", "a.jpg", "x"))
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", env.Error)

	token := issueToken(t, h)

	code, env = do(t, h, uploadRequest(t, token, "", ""))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No image provided", env.Error)

	code, env = do(t, h, uploadRequest(t, token, "a.gif", "x"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "invalid file type")

	code, _ = do(t, h, uploadRequest(t, token, "a.jpg", strings.Repeat("x", 1<<20+1)))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, h, uploadRequest(t, token, "a.jpg", "fine"))
	assert.Equal(t, http.StatusOK, code, "rejected requests leave the token usable")
}

func TestUploadNotMultipart(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{"token":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	code, env := do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(t)
	code, env := do(t, h, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "route not found", env.Error)
}

func TestUploadBodyOverLimit(t *testing.T) {
	h := newTestRouter(t)
	token := issueToken(t, h)

	// Larger than the image limit plus the multipart allowance, so the body reader itself gives up.
	code, env := do(t, h, uploadRequest(t, token, "a.jpg", strings.Repeat("x", 2<<20+1024)))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "File too large. Maximum size is 1MB", env.Error)

	code, _ = do(t, h, uploadRequest(t, token, "a.jpg", "fine"))
	assert.Equal(t, http.StatusOK, code, "an oversized body does not consume the token")
}

func TestSwaggerOnlyOutsideProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouterForEnv(t, "development").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Communal Collage API")

	code, env := do(t, newTestRouterForEnv(t, "production"), httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "route not found", env.Error)
}
