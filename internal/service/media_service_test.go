package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cabpool/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 22, G: 163, B: 74, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMediaServiceStoreImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewMediaService(setupServiceTestDB(t), dir, "/static/uploads/", 1<<20)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) }

	// the extension comes from the sniffed type, not the client name
	asset, err := svc.Store(context.Background(), multipartFile(t, "logo.jpeg", pngBytes(t, 4, 3)))
	require.NoError(t, err)

	assert.Equal(t, "image/png", asset.ContentType)
	assert.Equal(t, 4, asset.Width)
	assert.Equal(t, 3, asset.Height)
	assert.Equal(t, "logo.jpeg", asset.OriginalName)
	assert.True(t, strings.HasPrefix(asset.FileName, "20240309-"))
	assert.True(t, strings.HasSuffix(asset.FileName, ".png"))
	assert.Equal(t, "/static/uploads/"+asset.FileName, asset.URL)

	_, err = os.Stat(filepath.Join(dir, asset.FileName))
	require.NoError(t, err)

	list, err := svc.List("LOGO", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)

	require.NoError(t, svc.Delete(context.Background(), asset.ID))
	_, err = os.Stat(filepath.Join(dir, asset.FileName))
	assert.True(t, os.IsNotExist(err))
	assert.ErrorIs(t, svc.Delete(context.Background(), asset.ID), ErrMediaNotFound)
}

func TestMediaServiceRejectsBadUploads(t *testing.T) {
	svc := NewMediaService(setupServiceTestDB(t), t.TempDir(), "/static/uploads", 64)

	_, err := svc.Store(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMediaMissing)

	_, err = svc.Store(context.Background(), multipartFile(t, "notes.txt", []byte("plain text notes")))
	assert.ErrorIs(t, err, ErrMediaUnsupported)

	_, err = svc.Store(context.Background(), multipartFile(t, "big.png", pngBytes(t, 256, 256)))
	assert.ErrorIs(t, err, ErrMediaTooLarge)

	corrupt := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 16)...)
	_, err = svc.Store(context.Background(), multipartFile(t, "broken.png", corrupt))
	assert.ErrorIs(t, err, ErrMediaCorrupt)
}

func TestMediaServiceSearchTreatsWildcardsLiterally(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewMediaService(gdb, t.TempDir(), "/static/uploads", 1<<20)
	for i, name := range []string{"café-front.png", "100%_banner.png", "driver.mp4"} {
		asset := db.MediaAsset{
			FileName:     fmt.Sprintf("asset-%d", i),
			OriginalName: name,
			URL:          fmt.Sprintf("/static/uploads/asset-%d", i),
			ContentType:  "image/png",
		}
		require.NoError(t, gdb.Create(&asset).Error)
	}

	names := func(query string) []string {
		t.Helper()
		list, err := svc.List(query, 1, 10)
		require.NoError(t, err)
		out := make([]string, 0, len(list.Items))
		for _, item := range list.Items {
			out = append(out, item.OriginalName)
		}
		assert.EqualValues(t, len(out), list.Total, query)
		return out
	}

	assert.Equal(t, []string{"100%_banner.png"}, names("%"))
	assert.Equal(t, []string{"100%_banner.png"}, names("%_"))
	assert.Equal(t, []string{"café-front.png"}, names("CAFÉ"))
	assert.Empty(t, names("c_fe"))
	assert.Len(t, names("PNG"), 3)
}
