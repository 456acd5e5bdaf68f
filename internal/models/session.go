package models

import (
	"time"

	"gorm.io/datatypes"
)

// MatchLevel is the four-tier label derived from a score.
type MatchLevel string

const (
	MatchLow      MatchLevel = "Low"
	MatchFair     MatchLevel = "Fair"
	MatchModerate MatchLevel = "Moderate"
	MatchHigh     MatchLevel = "High"
)

// MatchedCondition is one ranked entry of a session's most recent match.
type MatchedCondition struct {
	ConditionID string     `json:"conditionId"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Prevalence  string     `json:"prevalence"`
	Score       int        `json:"score"`
	MatchLevel  MatchLevel `json:"matchLevel"`
}

// Session is an anonymous, time-boxed symptom checker session. ID is the
// internal row identifier; SessionID is the opaque token handed to clients.
type Session struct {
	BaseModel
	SessionID         string                                `gorm:"size:36;uniqueIndex;not null" json:"sessionId"`
	Age               float64                               `gorm:"not null" json:"age"`
	Sex               Sex                                   `gorm:"size:10;not null" json:"sex"`
	SelectedSymptoms  datatypes.JSONSlice[string]           `json:"selectedSymptoms"`
	MatchedConditions datatypes.JSONSlice[MatchedCondition] `json:"matchedConditions"`
	ExpiresAt         time.Time                             `gorm:"index;not null" json:"expiresAt"`
}

// TableName keeps checker sessions apart from any auth session table.
func (Session) TableName() string {
	return "checker_sessions"
}

// ExpiredAt reports whether the session is past its expiry at now.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
