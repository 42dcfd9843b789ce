package dto

// StudentWidgets aggregates a student's progress counters.
type StudentWidgets struct {
	TotalPoints          int   `json:"total_points"`
	TotalAssignments     int64 `json:"total_assignment"`
	SubmittedAssignments int64 `json:"submitted_assignments"`
}

// TeacherWidgets aggregates a teacher's roster and daily activity.
type TeacherWidgets struct {
	TotalStudents    int64                `json:"total_student"`
	TotalAssignments int64                `json:"total_assignments"`
	DailySubmissions []SubmissionResponse `json:"daily_submissions"`
}

// AdminWidgets aggregates portal-wide counters.
type AdminWidgets struct {
	TotalTeachers int64 `json:"total_teacher"`
	TotalStudents int64 `json:"total_students"`
	TotalCourses  int64 `json:"total_course"`
}

// LeaderboardEntry ranks a student by approved submission points.
type LeaderboardEntry struct {
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	TotalPoints int    `json:"total_points"`
	Approved    int64  `json:"approved_submissions"`
}
