package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportUser is the demographic context captured in a report.
type ReportUser struct {
	Age float64 `gorm:"column:user_age" json:"age"`
	Sex Sex     `gorm:"column:user_sex;size:10" json:"sex"`
}

// ReportSymptom is an expanded selected symptom.
type ReportSymptom struct {
	SymptomID string `json:"symptomId"`
	Name      string `json:"name"`
	Category  string `json:"category"`
}

// ReportCondition is a frozen ranked match.
type ReportCondition struct {
	ConditionID string     `json:"conditionId"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Score       int        `json:"score"`
	MatchLevel  MatchLevel `json:"matchLevel"`
}

// ReportTreatment is the guidance for a matched condition at report time.
type ReportTreatment struct {
	ConditionID    string            `json:"conditionId"`
	Name           string            `json:"name"`
	Overview       string            `json:"overview"`
	Lifestyle      []string          `json:"lifestyle"`
	Diet           []string          `json:"diet"`
	Approach       TreatmentApproach `json:"approach"`
	Precautions    []string          `json:"precautions"`
	WhenToSeekHelp string            `json:"whenToSeekHelp"`
}

// Report is an immutable snapshot of a session. Rows are only ever inserted.
type Report struct {
	ID         string                               `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SessionID  string                               `gorm:"size:36;index;not null" json:"sessionId"`
	SessionRef string                               `gorm:"size:36;index" json:"sessionRef"`
	User       ReportUser                           `gorm:"embedded" json:"user"`
	Symptoms   datatypes.JSONSlice[ReportSymptom]   `json:"symptoms"`
	Conditions datatypes.JSONSlice[ReportCondition] `json:"conditions"`
	Treatments datatypes.JSONSlice[ReportTreatment] `json:"treatments"`
	CreatedAt  time.Time                            `gorm:"not null" json:"createdAt"`
}

// BeforeCreate assigns a fresh identity to every report.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
