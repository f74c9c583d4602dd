package models

import "time"

// AuditKind distinguishes the two pipeline variants.
type AuditKind string

const (
	AuditKindSummary AuditKind = "summary"
	AuditKindReport  AuditKind = "report"
)

// AuditRecord captures one completed audit for the report history.
type AuditRecord struct {
	ID        int64     `json:"id"`
	Website   string    `json:"website"`
	Kind      AuditKind `json:"kind"`
	Model     string    `json:"model"`
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}
