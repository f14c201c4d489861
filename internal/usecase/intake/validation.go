package intake

import (
	"io"
	"path/filepath"
	"strings"

	apperrors "github.com/johnquangdev/call-review/errors"
)

// Upload is an audio file received from the operator
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

var allowedContentTypes = map[string]struct{}{
	"audio/mpeg":  {},
	"audio/mp3":   {},
	"audio/wav":   {},
	"audio/x-wav": {},
}

var allowedExtensions = map[string]struct{}{
	".mp3": {},
	".wav": {},
}

// Validate checks format and size locally. A failing upload never reaches the store or the network.
func Validate(u Upload, maxBytes int64) error {
	if !supportedFormat(u.Filename, u.ContentType) {
		return apperrors.ErrUnsupportedFormat(u.Filename, u.ContentType)
	}
	if maxBytes > 0 && u.Size > maxBytes {
		return apperrors.ErrFileTooLarge(u.Filename, int(maxBytes/(1024*1024)))
	}
	return nil
}

// supportedFormat accepts either a known MIME type or a known extension
func supportedFormat(filename, contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if _, ok := allowedContentTypes[mediaType]; ok {
		return true
	}
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}
