package repos

import (
	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
)

// Demographics is the eligibility predicate shared by symptom and condition
// queries. A nil Age or empty Sex leaves that dimension open.
type Demographics struct {
	Age *float64
	Sex models.Sex
}

// Scope renders the predicate onto a query against a table carrying the
// models.Eligibility columns.
func (d Demographics) Scope(db *gorm.DB) *gorm.DB {
	if d.Sex != "" {
		db = db.Where("(allowed_sex IN ? OR allowed_sex = '' OR allowed_sex IS NULL)",
			[]string{string(models.SexAny), string(d.Sex)})
	}
	if d.Age != nil {
		db = db.Where("age_min <= ?", *d.Age).
			Where("(age_max IS NULL OR age_max >= ?)", *d.Age)
	}
	return db
}

// Admits is the in-memory twin of Scope.
func (d Demographics) Admits(e models.Eligibility) bool {
	return e.Admits(d.Age, d.Sex)
}

// SymptomContext narrows results to symptoms sharing a category or a body
// part with an existing selection.
type SymptomContext struct {
	Categories  []string
	BodyPartIDs []string
}

func (c SymptomContext) empty() bool {
	return len(c.Categories) == 0 && len(c.BodyPartIDs) == 0
}

// SymptomQuery is the full predicate for a symptom listing, composed by the
// caller before it reaches the store.
type SymptomQuery struct {
	Demographics Demographics
	Category     string

	// BodyPartIDs restricts results to these parts when RestrictBodyParts is
	// set. An empty set with the restriction on matches nothing.
	BodyPartIDs       []string
	RestrictBodyParts bool

	CommonOnly bool
	Context    *SymptomContext

	// OrderByName sorts by name only; otherwise common symptoms come first.
	OrderByName bool
	Limit       int
}

// MatchesNothing reports whether the predicate can be answered without a
// round trip.
func (q SymptomQuery) MatchesNothing() bool {
	if q.RestrictBodyParts && len(q.BodyPartIDs) == 0 {
		return true
	}
	return q.Context != nil && q.Context.empty()
}

// Scope renders the query onto the symptoms table.
func (q SymptomQuery) Scope(db *gorm.DB) *gorm.DB {
	db = q.Demographics.Scope(db)
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.RestrictBodyParts {
		db = db.Where("body_part_id IN ?", q.BodyPartIDs)
	}
	if q.CommonOnly {
		db = db.Where("common = ?", true)
	}
	if q.Context != nil {
		switch {
		case len(q.Context.Categories) > 0 && len(q.Context.BodyPartIDs) > 0:
			db = db.Where("(category IN ? OR body_part_id IN ?)", q.Context.Categories, q.Context.BodyPartIDs)
		case len(q.Context.Categories) > 0:
			db = db.Where("category IN ?", q.Context.Categories)
		case len(q.Context.BodyPartIDs) > 0:
			db = db.Where("body_part_id IN ?", q.Context.BodyPartIDs)
		}
	}
	if q.OrderByName {
		db = db.Order("name ASC").Order("id ASC")
	} else {
		db = db.Order("common DESC").Order("name ASC").Order("id ASC")
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	return db
}
