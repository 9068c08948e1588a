package students

import "time"

// Student is one enrolled student with guardian contact details.
type Student struct {
	ID          string
	Name        string
	ClassID     string
	ParentName  string
	ParentPhone string
	ParentEmail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InfoUpdate carries the editable student fields.
type InfoUpdate struct {
	Name        string
	ParentName  string
	ParentPhone string
	ParentEmail string
}
