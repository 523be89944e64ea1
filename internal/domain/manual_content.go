package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ManualContent is a globally visible educational document from the GMC
// manual: a section, formula, worked example, constraint description, or
// strategy guide. Records are curated, never deleted.
//
// Fields:
//   - DocumentID: stable caller-supplied identifier, unique store-wide and
//     immutable after creation.
//   - ContentType / EducationalLevel: closed enumerations (see enums.go),
//     also enforced by DB check constraints.
//   - Version: free-form version string (e.g. "1.0"), not a counter.
//   - Tags: unordered set of search/categorization tags.
//   - RelatedFormulas: ordered weak references to other document IDs; no
//     existence constraint is enforced.
//   - CreatedAt set once on first insert; UpdatedAt refreshed on every write.
type ManualContent struct {
	DocumentID       string                       `json:"document_id"       gorm:"type:varchar(128);primaryKey"`
	ContentType      ContentType                  `json:"content_type"      gorm:"type:varchar(32);not null;index:idx_content_type_level,priority:1;check:content_type IN ('section','formula','example','constraint','strategy_guide')"`
	Title            string                       `json:"title"             gorm:"type:varchar(255);not null"`
	Content          string                       `json:"content"           gorm:"type:text;not null"`
	Version          string                       `json:"version"           gorm:"type:varchar(32);not null"`
	Tags             datatypes.JSONSlice[string]  `json:"tags"`
	EducationalLevel EducationalLevel             `json:"educational_level" gorm:"type:varchar(16);index:idx_content_type_level,priority:2;check:educational_level IN ('','beginner','intermediate','advanced')"`
	RelatedFormulas  datatypes.JSONSlice[string]  `json:"related_formulas"`
	CreatedAt        time.Time                    `json:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
}

// TableName returns the database table name for ManualContent.
func (ManualContent) TableName() string { return "gmc_manual_content" }
