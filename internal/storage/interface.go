// File: internal/storage/interface.go
package storage

import "context"

// Blob keys used across the system. Transcripts live under
// "{subject_id}/chat_history"; doctor prompt templates under
// "{doctor_id}/soap" and "{doctor_id}/dvx".
const (
	ChatHistoryBlob = "chat_history"
	SOAPPromptBlob  = "soap"
	DVXPromptBlob   = "dvx"
)

// BlobStore reads and writes text blobs in one bucket. A missing blob is not
// an error: DownloadText returns ("", nil), matching the upstream object
// store client this fronts.
type BlobStore interface {
	DownloadText(ctx context.Context, key string) (string, error)
	UploadText(ctx context.Context, content, key string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}
