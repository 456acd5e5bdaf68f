package models

// Sex is the demographic sex used for eligibility. Sessions only ever carry
// male or female; reference data may also declare any.
type Sex string

const (
	SexAny    Sex = "any"
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// IsPatientSex reports whether s can be carried by a session.
func (s Sex) IsPatientSex() bool {
	return s == SexMale || s == SexFemale
}

// IsCatalogSex reports whether s can be declared on reference data.
func (s Sex) IsCatalogSex() bool {
	return s == SexAny || s.IsPatientSex()
}

// AgeRange bounds eligible ages. A nil Max means no upper bound.
type AgeRange struct {
	Min float64  `gorm:"column:age_min;not null;default:0" json:"min"`
	Max *float64 `gorm:"column:age_max" json:"max"`
}

// Eligibility is the demographic gate shared by symptoms and conditions.
type Eligibility struct {
	AllowedSex Sex      `gorm:"column:allowed_sex;size:10;not null;default:'any';index" json:"allowedSex"`
	AgeRange   AgeRange `gorm:"embedded" json:"ageRange"`
}

// Admits applies the eligibility rule in memory. A nil age or empty sex
// leaves that dimension unconstrained.
func (e Eligibility) Admits(age *float64, sex Sex) bool {
	if sex != "" {
		allowed := e.AllowedSex
		if allowed == "" {
			allowed = SexAny
		}
		if allowed != SexAny && allowed != sex {
			return false
		}
	}
	if age != nil {
		if e.AgeRange.Min > *age {
			return false
		}
		if e.AgeRange.Max != nil && *e.AgeRange.Max < *age {
			return false
		}
	}
	return true
}
