package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cabpool/internal/db"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // register WebP decoder
	"gorm.io/gorm"
)

var (
	ErrMediaNotFound    = errors.New("media not found")
	ErrMediaMissing     = errors.New("media file is required")
	ErrMediaTooLarge    = errors.New("media file is too large")
	ErrMediaUnsupported = errors.New("media type is not supported")
	ErrMediaCorrupt     = errors.New("media file could not be decoded")
)

type mediaKind struct {
	ext    string
	raster bool
}

var allowedMedia = map[string]mediaKind{
	"image/jpeg":    {ext: ".jpg", raster: true},
	"image/png":     {ext: ".png", raster: true},
	"image/gif":     {ext: ".gif", raster: true},
	"image/webp":    {ext: ".webp", raster: true},
	"image/svg+xml": {ext: ".svg"},
	"video/mp4":     {ext: ".mp4"},
}

// MediaService stores uploaded files on disk and records them in the media library.
type MediaService struct {
	db       *gorm.DB
	dir      string
	urlPath  string
	maxBytes int64
	now      func() time.Time
}

// NewMediaService creates a MediaService writing into dir and serving from urlPath.
func NewMediaService(gdb *gorm.DB, dir, urlPath string, maxBytes int64) *MediaService {
	if strings.TrimSpace(dir) == "" {
		dir = "data/uploads"
	}
	urlPath = "/" + strings.Trim(strings.TrimSpace(urlPath), "/")
	if urlPath == "/" {
		urlPath = "/static/uploads"
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &MediaService{db: gdb, dir: dir, urlPath: urlPath, maxBytes: maxBytes, now: time.Now}
}

// MaxBytes returns the upload size limit.
func (s *MediaService) MaxBytes() int64 {
	return s.maxBytes
}

// Store validates an uploaded file by content, writes it under a unique name and records it.
func (s *MediaService) Store(ctx context.Context, header *multipart.FileHeader) (*db.MediaAsset, error) {
	if header == nil {
		return nil, ErrMediaMissing
	}
	if header.Size > s.maxBytes {
		return nil, ErrMediaTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("detect media type: %w", err)
	}
	contentType := strings.SplitN(mtype.String(), ";", 2)[0]
	kind, ok := allowedMedia[contentType]
	if !ok {
		return nil, ErrMediaUnsupported
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	var width, height int
	if kind.raster {
		cfg, _, err := image.DecodeConfig(file)
		if err != nil {
			return nil, ErrMediaCorrupt
		}
		width, height = cfg.Width, cfg.Height
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind upload: %w", err)
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	fileName := fmt.Sprintf("%s-%s%s", s.now().Format("20060102"), uuid.NewString(), kind.ext)
	target := filepath.Join(s.dir, fileName)
	written, err := writeFile(target, file, s.maxBytes)
	if err != nil {
		return nil, err
	}

	asset := db.MediaAsset{
		FileName:     fileName,
		OriginalName: filepath.Base(header.Filename),
		URL:          path.Join(s.urlPath, fileName),
		ContentType:  contentType,
		Size:         written,
		Width:        width,
		Height:       height,
	}
	if err := s.db.WithContext(ctx).Create(&asset).Error; err != nil {
		_ = os.Remove(target)
		return nil, fmt.Errorf("record media: %w", err)
	}
	return &asset, nil
}

func writeFile(target string, src io.Reader, limit int64) (int64, error) {
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create media file: %w", err)
	}

	written, copyErr := io.Copy(dst, io.LimitReader(src, limit+1))
	closeErr := dst.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(target)
		return 0, fmt.Errorf("write media file: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(target)
		return 0, fmt.Errorf("close media file: %w", closeErr)
	case written > limit:
		_ = os.Remove(target)
		return 0, ErrMediaTooLarge
	}
	return written, nil
}

// List returns media newest first, optionally filtered by name or type.
func (s *MediaService) List(search string, page, perPage int) (ListResult[db.MediaAsset], error) {
	result := ListResult[db.MediaAsset]{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 24),
	}

	query := s.db.Model(&db.MediaAsset{})
	newestFirst := func(q *gorm.DB) *gorm.DB { return q.Order("created_at desc").Order("id desc") }
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		var assets []db.MediaAsset
		if err := newestFirst(query).Find(&assets).Error; err != nil {
			return result, fmt.Errorf("list media: %w", err)
		}
		pageOf(&result, FilterByQuery(assets, trimmed, func(a db.MediaAsset) []string {
			return []string{a.OriginalName, a.ContentType}
		}))
		return result, nil
	}
	if err := query.Count(&result.Total).Error; err != nil {
		return result, fmt.Errorf("count media: %w", err)
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage
	if err := newestFirst(query).Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, fmt.Errorf("list media: %w", err)
	}
	return result, nil
}

// Delete removes the media record and its file.
func (s *MediaService) Delete(ctx context.Context, id uint) error {
	var asset db.MediaAsset
	if err := s.db.WithContext(ctx).First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediaNotFound
		}
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&asset).Error; err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(asset.FileName))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}
