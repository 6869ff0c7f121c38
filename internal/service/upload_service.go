package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/metrics"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// allowedImages maps accepted content types to the stored file extension.
var allowedImages = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

var (
	ErrNoFile           = apperror.Validation("No file uploaded")
	ErrUnsupportedImage = apperror.Validation("Only JPEG, PNG and GIF images are allowed")
)

type UploadService interface {
	SaveProductImage(identity policy.Identity, file *multipart.FileHeader) (*UploadResult, error)
}

type UploadResult struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type UploadConfig struct {
	Dir       string
	MaxBytes  int64
	PublicURL string
}

type uploadService struct {
	cfg     UploadConfig
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewUploadService(cfg UploadConfig, m *metrics.Metrics, log *logger.Logger) UploadService {
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	return &uploadService{cfg: cfg, metrics: m, log: log}
}

// SaveProductImage stores an image under a random name. The type is taken from
// the file's bytes; a declared type that disagrees is rejected.
func (s *uploadService) SaveProductImage(identity policy.Identity, file *multipart.FileHeader) (*UploadResult, error) {
	if err := policy.Authorize(identity, policy.UploadImage); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrNoFile
	}
	tooLarge := apperror.Validation(fmt.Sprintf("File too large (max %d MB)", s.cfg.MaxBytes/(1024*1024)))
	if file.Size > s.cfg.MaxBytes {
		return nil, tooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperror.Internal("failed to open upload", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.cfg.MaxBytes+1))
	if err != nil {
		return nil, apperror.Internal("failed to read upload", err)
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return nil, tooLarge
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}

	detected := mimetype.Detect(data).String()
	ext, ok := allowedImages[detected]
	if !ok {
		return nil, ErrUnsupportedImage
	}
	if declared := file.Header.Get("Content-Type"); declared != "" && declared != "application/octet-stream" {
		if _, ok := allowedImages[declared]; !ok {
			return nil, ErrUnsupportedImage
		}
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return nil, apperror.Internal("failed to prepare upload directory", err)
	}
	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.cfg.Dir, name), data, 0o644); err != nil {
		s.log.Error().Err(err).Str("dir", s.cfg.Dir).Msg("failed to store upload")
		return nil, apperror.Internal("failed to store upload", err)
	}

	s.metrics.RecordUpload(detected)
	s.log.Info().Str("user_id", identity.UserID.String()).Str("file", name).Int("bytes", len(data)).Msg("image uploaded")
	return &UploadResult{
		URL:         s.cfg.PublicURL + "/" + name,
		Filename:    name,
		ContentType: detected,
		Size:        int64(len(data)),
	}, nil
}
