package file

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/pkg/storage"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// ErrStorageUnavailable marks a failure of the blob store itself.
var ErrStorageUnavailable = errors.New("file storage unavailable")

const MaxUploadSize = 10 << 20

var photoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var documentTypes = map[string]string{
	"application/pdf":    ".pdf",
	"image/jpeg":         ".jpg",
	"image/png":          ".png",
	"image/webp":         ".webp",
	"text/plain":         ".txt",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// Stored describes an uploaded blob.
type Stored struct {
	Path string
	URL  string
}

type FileService interface {
	// UploadPhoto stores an employee profile photo under a random key, so it
	// can be uploaded before the employee row exists.
	UploadPhoto(ctx context.Context, file io.Reader) (Stored, error)
	// UploadPhotoDataURL stores a photo sent as a base64 data URL.
	UploadPhotoDataURL(ctx context.Context, dataURL string) (Stored, error)
	// UploadDocumentDataURL stores a document sent as a base64 data URL. The
	// stored extension always follows the declared type, which must match the
	// content.
	UploadDocumentDataURL(ctx context.Context, employeeID int64, category, dataURL string) (Stored, error)

	// DeleteFile removes a blob; failures are logged, not returned.
	DeleteFile(ctx context.Context, path string)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// IsDataURL reports whether s carries inline base64 content.
func IsDataURL(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// UploadPhoto uploads employee photo
func (s *fileServiceImpl) UploadPhoto(ctx context.Context, file io.Reader) (Stored, error) {
	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return Stored{}, fmt.Errorf("failed to read photo: %w", err)
	}
	if len(data) > MaxUploadSize {
		return Stored{}, validator.New("photo", "photo must not exceed 10MB")
	}
	contentType := http.DetectContentType(data)
	ext, ok := photoTypes[contentType]
	if !ok {
		return Stored{}, validator.New("photo", "invalid file type: only jpg, png, webp, gif allowed")
	}
	return s.put(ctx, path.Join("photos", uuid.NewString()+ext), data, contentType)
}

func (s *fileServiceImpl) UploadPhotoDataURL(ctx context.Context, dataURL string) (Stored, error) {
	contentType, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return Stored{}, validator.New("photo", err.Error())
	}
	ext, ok := photoTypes[contentType]
	if !ok {
		return Stored{}, validator.New("photo", "invalid file type: only jpg, png, webp, gif allowed")
	}
	if !contentMatches(contentType, data) {
		return Stored{}, validator.New("photo", fmt.Sprintf("file content does not match declared type %q", contentType))
	}
	return s.put(ctx, path.Join("photos", uuid.NewString()+ext), data, contentType)
}

// UploadDocumentDataURL uploads an employee document
func (s *fileServiceImpl) UploadDocumentDataURL(ctx context.Context, employeeID int64, category, dataURL string) (Stored, error) {
	contentType, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return Stored{}, validator.New("file_url", err.Error())
	}
	ext, ok := documentTypes[contentType]
	if !ok {
		return Stored{}, validator.New("file_url", fmt.Sprintf("unsupported document type %q", contentType))
	}
	if !contentMatches(contentType, data) {
		return Stored{}, validator.New("file_url", fmt.Sprintf("file content does not match declared type %q", contentType))
	}
	key := path.Join("documents", fmt.Sprint(employeeID), category, uuid.NewString()+ext)
	return s.put(ctx, key, data, contentType)
}

var oleHeader = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// contentMatches reports whether data sniffs as the declared content type.
// Legacy Word files have no sniffer signature and are matched on their OLE
// header; docx files sniff as zip archives.
func contentMatches(declared string, data []byte) bool {
	switch declared {
	case "application/msword":
		return bytes.HasPrefix(data, oleHeader)
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		declared = "application/zip"
	}
	sniffed, _, err := mime.ParseMediaType(http.DetectContentType(data))
	return err == nil && sniffed == declared
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.storage.Delete(ctx, path); err != nil {
		slog.Warn("failed to delete file", "path", path, "error", err)
	}
}

func (s *fileServiceImpl) put(ctx context.Context, key string, data []byte, contentType string) (Stored, error) {
	stored, err := s.storage.Upload(ctx, bytes.NewReader(data), key, contentType)
	if err != nil {
		return Stored{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return Stored{Path: stored, URL: s.storage.PublicURL(stored)}, nil
}

// DecodeDataURL parses "data:<mime>;base64,<payload>".
func DecodeDataURL(dataURL string) (string, []byte, error) {
	dataURL = strings.TrimSpace(dataURL)
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URL")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, errors.New("data URL must be base64 encoded")
	}
	contentType, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return "", nil, fmt.Errorf("invalid media type: %w", err)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxUploadSize+3 {
		return "", nil, errors.New("file must not exceed 10MB")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.New("invalid base64 payload")
	}
	if len(data) == 0 {
		return "", nil, errors.New("file is empty")
	}
	if len(data) > MaxUploadSize {
		return "", nil, errors.New("file must not exceed 10MB")
	}
	return contentType, data, nil
}
