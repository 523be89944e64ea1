// Package domain defines the persistence models for the three content
// collections of the GMC dashboard: manual content, coaching sessions, and
// project documents. These types are mapped with GORM and form the core
// data layer of the backend.
//
// This file declares the closed enumerations used across collections. The
// source schema expressed these as JSON-schema enum lists; here they become
// typed string constants with explicit membership checks so invalid values
// are rejected before any persistence attempt.
package domain

// ContentType classifies a manual content record.
type ContentType string

const (
	ContentSection       ContentType = "section"
	ContentFormula       ContentType = "formula"
	ContentExample       ContentType = "example"
	ContentConstraint    ContentType = "constraint"
	ContentStrategyGuide ContentType = "strategy_guide"
)

// Valid reports whether c is a member of the content type enumeration.
func (c ContentType) Valid() bool {
	switch c {
	case ContentSection, ContentFormula, ContentExample, ContentConstraint, ContentStrategyGuide:
		return true
	}
	return false
}

// EducationalLevel grades the complexity of manual content.
type EducationalLevel string

const (
	LevelBeginner     EducationalLevel = "beginner"
	LevelIntermediate EducationalLevel = "intermediate"
	LevelAdvanced     EducationalLevel = "advanced"
)

// Valid reports whether l is a member of the educational level enumeration.
// The empty value is also valid: the level is an optional field.
func (l EducationalLevel) Valid() bool {
	switch l {
	case "", LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Sender identifies the author side of a coaching message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Valid reports whether s is a member of the sender enumeration.
func (s Sender) Valid() bool { return s == SenderUser || s == SenderAI }

// AIProvider names the LLM backend that produced an AI coaching message.
type AIProvider string

const (
	ProviderOpenAI    AIProvider = "openai"
	ProviderAnthropic AIProvider = "anthropic"
	ProviderGemini    AIProvider = "gemini"
	ProviderOllama    AIProvider = "ollama"
)

// Valid reports whether p is a member of the provider enumeration. The
// empty value is valid: user messages carry no provider.
func (p AIProvider) Valid() bool {
	switch p {
	case "", ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama:
		return true
	}
	return false
}

// RiskTolerance is the user's risk profile within a project.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// Valid reports whether r is a member of the risk tolerance enumeration.
// The empty value is valid until a profile has been learned.
func (r RiskTolerance) Valid() bool {
	switch r {
	case "", RiskConservative, RiskModerate, RiskAggressive:
		return true
	}
	return false
}

// DocumentType classifies a project document.
type DocumentType string

const (
	DocAnalysisNotes        DocumentType = "analysis_notes"
	DocStrategyMemo         DocumentType = "strategy_memo"
	DocCalculationWorksheet DocumentType = "calculation_worksheet"
	DocTeamNotes            DocumentType = "team_notes"
)

// Valid reports whether d is a member of the document type enumeration.
func (d DocumentType) Valid() bool {
	switch d {
	case DocAnalysisNotes, DocStrategyMemo, DocCalculationWorksheet, DocTeamNotes:
		return true
	}
	return false
}
