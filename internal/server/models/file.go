package models

import "time"

// FileMetadata describes one stored blob.
//
// Size is the on-disk length of the blob, that is the 16-byte IV plus the
// compressed ciphertext; OriginalSize is the plaintext length as uploaded.
// StoragePath is "{id}_{sanitized filename}" and is unique across all
// records; uniqueness comes from the id component, not the filename.
type FileMetadata struct {
	ID           string
	Filename     string
	ContentType  string
	Size         int64
	OriginalSize int64
	UploadDate   time.Time
	StoragePath  string
	OwnerID      string
}
