package domain

import "time"

type Course struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"uniqueIndex"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"-"`
}

type Semester struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CourseID   uint      `json:"courseId" gorm:"not null"`
	SemesterNo int       `json:"semesterNo" gorm:"not null"`
	CreatedAt  time.Time `json:"-"`
}
