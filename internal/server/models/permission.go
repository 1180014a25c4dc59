package models

// AccessLevel is the strength of a delegated grant.
type AccessLevel string

const (
	// AccessView allows read and download only.
	AccessView AccessLevel = "VIEW"
	// AccessOwner is owner-equivalent: read, rename, delete and re-share,
	// everything except being the owner of record.
	AccessOwner AccessLevel = "OWNER"
)

// FilePermission delegates an AccessLevel on one file to one user other
// than its primary owner. A (file, user) pair may hold several grants; the
// predicates treat any OWNER grant as owner-equivalent.
type FilePermission struct {
	ID          string
	FileID      string
	UserID      string
	AccessLevel AccessLevel
}
