package services

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// AllowedMimeTypes lists the document types accepted for upload.
var AllowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"application/zip":              true,
	"application/x-rar-compressed": true,
	"application/x-7z-compressed":  true,
	"image/jpeg":                   true,
	"image/png":                    true,
	"image/gif":                    true,
	"image/webp":                   true,
	"text/plain":                   true,
	"text/csv":                     true,
}

// UploadRules bounds a single upload request.
type UploadRules struct {
	MaxSize  int64
	MaxFiles int
}

// DetectMimeType trusts a specific Content-Type header, then the file
// extension, then the first bytes of the content.
func DetectMimeType(fh *multipart.FileHeader) string {
	if declared := baseMimeType(fh.Header.Get("Content-Type")); declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := baseMimeType(mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))); byExt != "" {
		return byExt
	}

	f, err := fh.Open()
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	return baseMimeType(http.DetectContentType(head[:n]))
}

func baseMimeType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return mediaType
}

// ValidateUpload checks type and declared size and returns the MIME type.
func ValidateUpload(fh *multipart.FileHeader, rules UploadRules) (string, error) {
	mimeType := DetectMimeType(fh)
	if !AllowedMimeTypes[mimeType] {
		return "", UnsupportedMediaType(fmt.Sprintf("file type %s is not allowed (%s)", mimeType, fh.Filename))
	}
	if rules.MaxSize > 0 && fh.Size > rules.MaxSize {
		return "", PayloadTooLarge(fmt.Sprintf("%s exceeds the %d MB limit", fh.Filename, rules.MaxSize/(1024*1024)))
	}
	return mimeType, nil
}
