package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ProjectDocument is a collaborative document owned by a project: analysis
// notes, a strategy memo, a calculation worksheet, or shared team notes.
// The content payload is schema-flexible JSON whose shape varies by
// DocumentType; the store validates only that it is a JSON object, the
// per-type schema belongs to the consuming service.
//
// Fields:
//   - DocumentID: stable caller-supplied identifier, unique store-wide.
//   - ProjectID: scope key; search and reads never cross projects.
//   - Version: integer >= 1, bumped on every content revision. Updates use
//     optimistic concurrency on this column.
//   - AuthorUserID: immutable creator reference. Collaborators does not
//     implicitly include the author; callers add it if desired.
//   - IsArchived: soft-delete flag. Archived rows stay queryable; default
//     "active" filtering is the consuming service's policy.
type ProjectDocument struct {
	DocumentID    string                      `json:"document_id"    gorm:"type:varchar(128);primaryKey"`
	ProjectID     string                      `json:"project_id"     gorm:"type:varchar(64);not null;index:idx_project_doc_type,priority:1;index:idx_project_author,priority:1"`
	DocumentType  DocumentType                `json:"document_type"  gorm:"type:varchar(32);not null;index:idx_project_doc_type,priority:2;check:document_type IN ('analysis_notes','strategy_memo','calculation_worksheet','team_notes')"`
	Title         string                      `json:"title"          gorm:"type:varchar(255)"`
	Content       datatypes.JSON              `json:"content"        gorm:"not null"`
	Version       int                         `json:"version"        gorm:"not null;default:1;check:version >= 1"`
	AuthorUserID  string                      `json:"author_user_id" gorm:"type:varchar(64);not null;index:idx_project_author,priority:2"`
	Collaborators datatypes.JSONSlice[string] `json:"collaborators"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	IsArchived    bool                        `json:"is_archived"    gorm:"not null;default:false"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// TableName returns the database table name for ProjectDocument.
func (ProjectDocument) TableName() string { return "project_documents" }

// HasAccess reports whether userID is the author or a listed collaborator.
// This is advisory: the store is not a security boundary, enforcement is
// the caller's responsibility.
func (d *ProjectDocument) HasAccess(userID string) bool {
	if userID == "" {
		return false
	}
	if d.AuthorUserID == userID {
		return true
	}
	for _, c := range d.Collaborators {
		if c == userID {
			return true
		}
	}
	return false
}
