package models

import "time"

// UploadedFile represents a document uploaded to the scratch store.
type UploadedFile struct {
	ID         string    `json:"id"`
	FileName   string    `json:"filename"`
	StoredPath string    `json:"-"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime"`
	CreatedAt  time.Time `json:"created_at"`
}
