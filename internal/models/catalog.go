package models

import (
	"gorm.io/datatypes"
)

// BodyRegion groups body parts (head, chest, abdomen).
type BodyRegion struct {
	BaseModel
	Name  string `gorm:"size:100;not null" json:"name"`
	Slug  string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Order int    `gorm:"column:display_order;default:0" json:"order"`

	Parts []BodyPart `gorm:"foreignKey:RegionID" json:"parts,omitempty"`
}

// BodyPart is an anatomical location inside a region.
type BodyPart struct {
	BaseModel
	Name     string                      `gorm:"size:100;not null" json:"name"`
	Slug     string                      `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	RegionID string                      `gorm:"size:36;index;not null" json:"regionId"`
	Synonyms datatypes.JSONSlice[string] `json:"synonyms"`
}

// Symptom is seeded reference data that users select from.
type Symptom struct {
	BaseModel
	Name           string                      `gorm:"size:150;not null" json:"name"`
	Slug           string                      `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	Category       string                      `gorm:"size:100;not null;index" json:"category"`
	BodyPartID     *string                     `gorm:"size:36;index" json:"bodyPartId,omitempty"`
	Common         bool                        `gorm:"default:false;index" json:"common"`
	RedFlag        bool                        `gorm:"default:false" json:"redFlag"`
	Synonyms       datatypes.JSONSlice[string] `json:"synonyms"`
	SearchableText string                      `gorm:"type:text" json:"searchableText,omitempty"`
	Eligibility    `gorm:"embedded"`
}

// Condition is a predefined profile scored against a symptom selection.
type Condition struct {
	BaseModel
	Name           string                      `gorm:"size:150;not null" json:"name"`
	Slug           string                      `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	Description    string                      `gorm:"type:text" json:"description"`
	Overview       string                      `gorm:"type:text" json:"overview"`
	Prevalence     string                      `gorm:"size:100" json:"prevalence"`
	RiskFactors    datatypes.JSONSlice[string] `json:"riskFactors"`
	WhenToSeekHelp string                      `gorm:"type:text" json:"whenToSeekHelp"`
	Perspective    string                      `gorm:"type:text" json:"perspective"`
	CommonSymptoms datatypes.JSONSlice[string] `json:"commonSymptoms"`
	Eligibility    `gorm:"embedded"`

	Symptoms []ConditionSymptom `gorm:"foreignKey:ConditionID;constraint:OnDelete:CASCADE" json:"symptoms"`
}

// ConditionSymptom is one weighted entry of a condition's ordered symptom list.
type ConditionSymptom struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	ConditionID string  `gorm:"size:36;index;not null" json:"-"`
	SymptomID   string  `gorm:"size:36;index;not null" json:"symptomId"`
	Weight      float64 `gorm:"not null" json:"weight"`
	Position    int     `gorm:"not null" json:"-"`

	Symptom *Symptom `gorm:"foreignKey:SymptomID" json:"symptom,omitempty"`
}

// TreatmentApproach lists the root causes and focus areas of a care plan.
type TreatmentApproach struct {
	RootCauses []string `json:"rootCauses"`
	FocusAreas []string `json:"focusAreas"`
}

// Treatment is the guidance bound 1:1 to a condition.
type Treatment struct {
	BaseModel
	ConditionID    string                                `gorm:"size:36;uniqueIndex;not null" json:"conditionId"`
	Overview       string                                `gorm:"type:text" json:"overview"`
	Lifestyle      datatypes.JSONSlice[string]           `json:"lifestyle"`
	Diet           datatypes.JSONSlice[string]           `json:"diet"`
	Approach       datatypes.JSONType[TreatmentApproach] `json:"approach"`
	Precautions    datatypes.JSONSlice[string]           `json:"precautions"`
	WhenToSeekHelp string                                `gorm:"type:text" json:"whenToSeekHelp"`
}
