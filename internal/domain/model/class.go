package model

// Class is a course section as synced from the SIS.
type Class struct {
	ClassID    string `json:"classId"              db:"class_id"`
	ClassName  string `json:"className"            db:"class_name"`
	CourseCode string `json:"courseCode,omitempty" db:"course_code"`
}
