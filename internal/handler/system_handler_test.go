package handler

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/cabpool/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteSettingsLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rr := env.request(t, http.MethodGet, "/api/settings", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	site := decodeJSON(t, rr)["settings"].(map[string]interface{})["site"].(map[string]interface{})
	assert.Equal(t, "CabPool", site["name"])

	rr = env.request(t, http.MethodPut, "/api/admin/settings", map[string]interface{}{
		"theme": map[string]interface{}{"primary": "green"},
	}, true)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	fields := decodeJSON(t, rr)["fields"].(map[string]interface{})
	assert.Equal(t, "hexcolor", fields["theme.primary"])

	rr = env.request(t, http.MethodPut, "/api/admin/settings", map[string]interface{}{
		"site": map[string]interface{}{"name": "PoolKar", "tagline": "Share the ride"},
	}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.request(t, http.MethodGet, "/api/settings", nil, false)
	settings := decodeJSON(t, rr)["settings"].(map[string]interface{})
	assert.Equal(t, "PoolKar", settings["site"].(map[string]interface{})["name"])
	assert.Equal(t, "#16a34a", settings["theme"].(map[string]interface{})["primary"])

	rr = env.request(t, http.MethodPost, "/api/admin/settings/reset", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	site = decodeJSON(t, rr)["settings"].(map[string]interface{})["site"].(map[string]interface{})
	assert.Equal(t, "CabPool", site["name"])
}

func TestSiteSettingsUpdateRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rr := env.request(t, http.MethodPut, "/api/admin/settings", map[string]interface{}{
		"site": map[string]interface{}{"name": "Hijacked"},
	}, false)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func uploadRequest(t *testing.T, env *testEnv, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for _, c := range env.cookies {
		req.AddCookie(c)
	}
	return env.do(req)
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 22, G: 163, B: 74, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func metricsBody(t *testing.T, env *testEnv) string {
	t.Helper()
	rr := httptest.NewRecorder()
	env.metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestUploadMedia(t *testing.T) {
	env := newTestEnv(t)

	rr := uploadRequest(t, env, "car.png", tinyPNG(t))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	payload := decodeJSON(t, rr)
	assert.True(t, strings.HasPrefix(payload["url"].(string), "/static/uploads/"))

	rr = uploadRequest(t, env, "notes.png", []byte("just some text, not an image"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)

	rr = env.request(t, http.MethodGet, "/api/media", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, decodeJSON(t, rr)["total"])

	body := metricsBody(t, env)
	assert.Contains(t, body, `cabpool_media_uploads_total{result="ok"} 1`)
	assert.Contains(t, body, `cabpool_media_uploads_total{result="unsupported"} 1`)
}

func TestUploadMediaWithoutFile(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	for _, c := range env.cookies {
		req.AddCookie(c)
	}
	rr := env.do(req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func postForm(env *testEnv, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return env.do(req)
}

func TestSubmitContactForm(t *testing.T) {
	env := newTestEnv(t)

	rr := postForm(env, "/api/contact", url.Values{
		"name":    {"Asha"},
		"email":   {"asha@example.com"},
		"message": {"Do you cover Whitefield?"},
	})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/contact?sent=1", rr.Header().Get("Location"))

	rr = postForm(env, "/api/contact", url.Values{
		"name":    {"Asha"},
		"email":   {"not-an-email"},
		"message": {"hi"},
	})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/contact?error=invalid", rr.Header().Get("Location"))

	var count int64
	require.NoError(t, env.db.Model(&db.ContactMessage{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitContactJSONAndTriage(t *testing.T) {
	env := newTestEnv(t)

	rr := env.request(t, http.MethodPost, "/api/contact", map[string]interface{}{
		"name":    "Vikram",
		"email":   "vikram@example.com",
		"subject": "Corporate plan",
		"message": "We have 40 employees.",
	}, false)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = env.request(t, http.MethodPost, "/api/contact", map[string]interface{}{"name": "No message"}, false)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	fields := decodeJSON(t, rr)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "message")

	assert.Equal(t, http.StatusUnauthorized, env.request(t, http.MethodGet, "/api/contact-messages", nil, false).Code)

	rr = env.request(t, http.MethodGet, "/api/contact-messages?unhandled=true", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	messages := decodeJSON(t, rr)["messages"].([]interface{})
	require.Len(t, messages, 1)
	id := messages[0].(map[string]interface{})["id"]

	rr = env.request(t, http.MethodPut, fmt.Sprintf("/api/contact-messages/%v", id), map[string]interface{}{"handled": true}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.request(t, http.MethodGet, "/api/contact-messages?unhandled=true", nil, true)
	assert.EqualValues(t, 0, decodeJSON(t, rr)["total"])
}
