package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"niuniq/config"
	apperrors "niuniq/pkg/errors"
)

// ValidateFile checks the size and the sniffed MIME type of an upload against
// config.UploadContexts[contextName]. maxBytes overrides the context's size
// limit when positive. The reader is rewound before returning.
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, contextName string, maxBytes int64) error {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("unknown upload context %q", contextName)
	}

	limit := maxBytes
	if limit <= 0 && rules.MaxSizeMB > 0 {
		limit = rules.MaxSizeMB * 1000 * 1000
	}
	if limit > 0 && fileHeader.Size > limit {
		return apperrors.NewBadRequestError(
			fmt.Sprintf("Uploaded file %s cannot be more than %.1f mb", fileHeader.Filename, float64(limit)/1000/1000))
	}

	mimeType, err := sniff(file)
	if err != nil {
		return err
	}
	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return apperrors.NewBadRequestError(
			fmt.Sprintf("The file %s has an unsupported format %s", fileHeader.Filename, mimeType))
	}
	return nil
}

// ValidateFiles validates every header and enforces the context's minimum
// file count.
func ValidateFiles(headers []*multipart.FileHeader, contextName string, maxBytes int64) error {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("unknown upload context %q", contextName)
	}
	if len(headers) < rules.MinCount {
		return apperrors.NewBadRequestError(fmt.Sprintf("At least %d photos must be entered", rules.MinCount))
	}
	return ValidateEach(headers, contextName, maxBytes)
}

// ValidateEach validates every header without a count check.
func ValidateEach(headers []*multipart.FileHeader, contextName string, maxBytes int64) error {
	for _, fh := range headers {
		if err := validateHeader(fh, contextName, maxBytes); err != nil {
			return err
		}
	}
	return nil
}

func validateHeader(fh *multipart.FileHeader, contextName string, maxBytes int64) error {
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return ValidateFile(fh, f, contextName, maxBytes)
}

func sniff(file io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return http.DetectContentType(buffer[:n]), nil
}
