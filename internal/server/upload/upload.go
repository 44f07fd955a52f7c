// Package upload parses size-bounded multipart activity imports. The body is
// streamed part by part to a bounded temp file, never buffered whole in
// memory, and any temp file created along the way is removed on every failure
// path before Ingest returns.
package upload

import (
	"github.com/geauxvirtual/hapi/internal/filex"
)

// Upload is the result of a successful ingestion: one temp file plus the
// declared text fields. The caller owns the temp file and must Discard it
// (directly or through the import pipeline) before the request finishes.
type Upload struct {
	TempPath     string
	DataType     string
	Name         *string
	ActivityType *string
	Size         int64

	discarded bool
}

// Discard removes the temp file. Safe to call more than once.
func (u *Upload) Discard() error {
	if u.discarded {
		return nil
	}
	u.discarded = true
	return filex.RemoveFile(u.TempPath)
}
