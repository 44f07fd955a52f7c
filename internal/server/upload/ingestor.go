package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/geauxvirtual/hapi/internal/common"
	"github.com/geauxvirtual/hapi/internal/filex"
)

// Limits and field names of the multipart import contract.
const (
	// DefaultBodyLimit caps the declared Content-Length of the whole body.
	DefaultBodyLimit = 10 * 1024 * 1024

	// DefaultFileLimit caps the bytes streamed from the single file part,
	// independent of the declared Content-Length.
	DefaultFileLimit = 1 * 1024 * 1024

	// maxTextFieldSize bounds the text parts so a field cannot be abused to
	// buffer arbitrary data in memory.
	maxTextFieldSize = 4 * 1024
)

// Ingestor parses multipart activity-import requests. Zero-value limits are
// replaced with the defaults; TempDir empty means the OS temp directory.
type Ingestor struct {
	BodyLimit int64
	FileLimit int64
	TempDir   string
}

// NewIngestor returns an Ingestor with the given caps, falling back to the
// defaults for non-positive values.
func NewIngestor(bodyLimit, fileLimit int64, tempDir string) *Ingestor {
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}
	if fileLimit <= 0 {
		fileLimit = DefaultFileLimit
	}
	return &Ingestor{BodyLimit: bodyLimit, FileLimit: fileLimit, TempDir: tempDir}
}

// Ingest parses the request body into exactly one file part plus whitelisted
// text fields. Classification of failures:
//
//	common.ErrorLengthRequired  - no Content-Length
//	common.ErrorPayloadTooLarge - declared body or streamed file over cap
//	common.ErrorValidation      - missing boundary, malformed parts, a second
//	                              file part, an unknown text field, no file,
//	                              or no data_type
//
// Whatever the failure, no temp file is left behind: the deferred guard below
// runs on every exit path and is disarmed only when an Upload is handed to
// the caller.
func (ing *Ingestor) Ingest(r *http.Request) (up *Upload, err error) {
	if r.ContentLength < 0 {
		return nil, common.ErrorLengthRequired
	}
	if r.ContentLength > ing.BodyLimit {
		return nil, common.ErrorPayloadTooLarge
	}

	_, params, mimeErr := mime.ParseMediaType(r.Header.Get("Content-Type"))
	boundary := params["boundary"]
	if mimeErr != nil || boundary == "" {
		return nil, common.ErrorValidation
	}

	var tempPath string
	var size int64
	defer func() {
		if err != nil && tempPath != "" {
			_ = filex.RemoveFile(tempPath)
		}
	}()

	var dataType, name, activityType *string

	mr := multipart.NewReader(r.Body, boundary)
	for {
		part, partErr := mr.NextPart()
		if errors.Is(partErr, io.EOF) {
			break
		}
		if partErr != nil {
			return nil, common.ErrorValidation
		}

		if part.FileName() != "" {
			// Exactly one file part per request, not "last wins".
			if tempPath != "" {
				return nil, common.ErrorValidation
			}
			tempPath, size, err = ing.saveFilePart(part)
			if err != nil {
				tempPath = ""
				return nil, err
			}
			continue
		}

		value, fieldErr := readTextField(part)
		if fieldErr != nil {
			return nil, fieldErr
		}
		switch part.FormName() {
		case "data_type":
			dataType = &value
		case "name":
			name = &value
		case "activity_type":
			activityType = &value
		default:
			return nil, common.ErrorValidation
		}
	}

	if tempPath == "" {
		return nil, common.ErrorValidation
	}
	if dataType == nil {
		return nil, common.ErrorValidation
	}

	return &Upload{
		TempPath:     tempPath,
		DataType:     *dataType,
		Name:         name,
		ActivityType: activityType,
		Size:         size,
	}, nil
}

// saveFilePart streams the part to a fresh temp file, reading at most one
// byte over the cap so an over-limit stream is detected without buffering it.
// The partial file is removed before any error return.
func (ing *Ingestor) saveFilePart(part io.Reader) (string, int64, error) {
	f, err := os.CreateTemp(ing.TempDir, "hapi-upload-*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()

	n, copyErr := io.Copy(f, io.LimitReader(part, ing.FileLimit+1))
	closeErr := f.Close()

	if copyErr != nil {
		_ = filex.RemoveFile(path)
		// A body that ends mid-part (no closing boundary) is a malformed
		// request, not a server fault.
		if errors.Is(copyErr, io.ErrUnexpectedEOF) {
			return "", 0, common.ErrorValidation
		}
		return "", 0, fmt.Errorf("stream file part: %w", copyErr)
	}
	if closeErr != nil {
		_ = filex.RemoveFile(path)
		return "", 0, fmt.Errorf("close temp file: %w", closeErr)
	}
	if n > ing.FileLimit {
		_ = filex.RemoveFile(path)
		return "", 0, common.ErrorPayloadTooLarge
	}

	return path, n, nil
}

func readTextField(part io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(part, maxTextFieldSize+1))
	if err != nil {
		return "", common.ErrorValidation
	}
	if len(b) > maxTextFieldSize {
		return "", common.ErrorValidation
	}
	return string(b), nil
}
