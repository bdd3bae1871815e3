package model

type Child struct {
	ID               string `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Age              int    `json:"age"`
	ParentID         string `json:"parent_id"`
	PrimaryTeacherID string `json:"primary_teacher_id,omitempty"`
	ProgrammingLevel string `json:"programming_level"`
	Notes            string `json:"notes,omitempty"`
	IsActive         bool   `json:"is_active"`
	Ctime            int64  `json:"ctime"`
	Mtime            int64  `json:"mtime"`
}
