package domain

import (
	"time"

	"gorm.io/datatypes"
)

// StrategyPreferences captures the strategy patterns learned for a user
// within one project. Stored as a JSON sub-document on the session row.
type StrategyPreferences struct {
	// OptimizationPriorities is an ordered list, highest priority first.
	OptimizationPriorities []string `json:"optimization_priorities,omitempty"`
	// RiskManagementApproach is free text describing how the user hedges.
	RiskManagementApproach string `json:"risk_management_approach,omitempty"`
	// CompetitiveFocusAreas is a set of focus tags (markets, products, ...).
	CompetitiveFocusAreas []string `json:"competitive_focus_areas,omitempty"`
	// ProjectSpecificInsights is an open key/value insight map.
	ProjectSpecificInsights map[string]string `json:"project_specific_insights,omitempty"`
}

// ValueRange aggregates the numeric values a user has chosen for one
// decision parameter: the running min/max and the last preferred value.
type ValueRange struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Preferred float64 `json:"preferred"`
}

// DecisionPattern is a per-parameter aggregate of the user's historical
// decisions within a project.
type DecisionPattern struct {
	ParameterName     string     `json:"parameter_name"`
	DecisionFrequency int        `json:"decision_frequency"`
	ValueRanges       ValueRange `json:"value_ranges"`
	ContextTags       []string   `json:"context_tags,omitempty"`
}

// LearningProgress tracks competency development for a user within a
// project: mastered concepts, weak spots, and per-subject scores.
type LearningProgress struct {
	ConceptsMastered    []string           `json:"concepts_mastered,omitempty"`
	AreasForImprovement []string           `json:"areas_for_improvement,omitempty"`
	CompetencyScores    map[string]float64 `json:"competency_scores,omitempty"`
}

// CoachingSession is the per-(project, user) AI coaching state. All
// conversation and learning data is isolated per project: a user's coaching
// state in one project is never visible from another. Sessions are created
// on first interaction and mutated on every subsequent message or decision
// event; there is no delete (archival lives outside the store).
//
// Invariants:
//   - (ProjectID, UserID) is unique; concurrent first interactions for the
//     same pair converge on a single row via the unique index.
//   - TotalInteractions equals the number of recorded conversation messages.
//   - CoachingEffectiveness stays within [0, 1].
type CoachingSession struct {
	ID                   string                                   `json:"coaching_session_id"   gorm:"type:char(36);primaryKey;column:coaching_session_id"`
	ProjectID            string                                   `json:"project_id"            gorm:"type:varchar(64);not null;uniqueIndex:ux_session_project_user,priority:1;index:idx_project_effectiveness,priority:1"`
	UserID               string                                   `json:"user_id"               gorm:"type:varchar(64);not null;uniqueIndex:ux_session_project_user,priority:2;index:idx_user_last_interaction,priority:1"`
	StrategyPreferences  datatypes.JSONType[StrategyPreferences]  `json:"strategy_preferences"`
	DecisionPatterns     datatypes.JSONType[[]DecisionPattern]    `json:"decision_patterns"`
	RiskTolerance        RiskTolerance                            `json:"risk_tolerance"        gorm:"type:varchar(16);check:risk_tolerance IN ('','conservative','moderate','aggressive')"`
	LearningProgress     datatypes.JSONType[LearningProgress]     `json:"learning_progress"`
	CoachingEffectiveness float64                                 `json:"coaching_effectiveness" gorm:"not null;default:0;index:idx_project_effectiveness,priority:2,sort:desc;check:coaching_effectiveness >= 0 AND coaching_effectiveness <= 1"`
	TotalInteractions    int                                      `json:"total_interactions"    gorm:"not null;default:0;check:total_interactions >= 0"`
	LastInteraction      *time.Time                               `json:"last_interaction,omitempty" gorm:"index:idx_user_last_interaction,priority:2,sort:desc"`
	CreatedAt            time.Time                                `json:"created_at"`
	UpdatedAt            time.Time                                `json:"updated_at"`
}

// TableName returns the database table name for CoachingSession.
func (CoachingSession) TableName() string { return "ai_coaching_sessions" }

// CoachingMessage is one utterance in a session's conversation history.
// Messages live in their own table rather than an embedded array: a row
// insert is the backend's atomic array-append, so concurrent appends to the
// same session never overwrite each other. Arrival order is preserved by
// the per-session sequence number.
type CoachingMessage struct {
	MessageID          string                      `json:"message_id" gorm:"type:char(36);primaryKey;column:message_id"`
	SessionID          string                      `json:"-"          gorm:"type:char(36);not null;uniqueIndex:ux_session_seq,priority:1;index:idx_session_msgs"`
	Seq                int                         `json:"-"          gorm:"not null;uniqueIndex:ux_session_seq,priority:2"`
	Sender             Sender                      `json:"sender"     gorm:"type:varchar(8);not null;check:sender IN ('user','ai')"`
	Content            string                      `json:"content"    gorm:"type:text;not null"`
	ProjectContextTags datatypes.JSONSlice[string] `json:"project_context_tags,omitempty"`
	AIProvider         AIProvider                  `json:"ai_provider,omitempty" gorm:"type:varchar(16);column:ai_provider;check:ai_provider IN ('','openai','anthropic','gemini','ollama')"`
	Timestamp          time.Time                   `json:"timestamp"  gorm:"not null"`

	// Session is the parent coaching session. Messages are cascade-deleted
	// if their session row is ever removed.
	Session CoachingSession `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for CoachingMessage.
func (CoachingMessage) TableName() string { return "coaching_messages" }
