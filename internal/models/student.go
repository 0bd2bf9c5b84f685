package models

import "time"

// Student represents a learner with a prepaid class balance.
type Student struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Phone             string    `db:"phone" json:"phone"`
	Address           string    `db:"address" json:"address"`
	RegisteredClasses int       `db:"registered_classes" json:"registered_classes"`
	RemainingClasses  int       `db:"remaining_classes" json:"remaining_classes"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
