package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseDraft       CourseStatus = "draft"
	CoursePublished   CourseStatus = "published"
	CourseUnpublished CourseStatus = "unpublished"
)

type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

type Course struct {
	ID          string       `json:"id" gorm:"primaryKey;size:36"`
	Title       string       `json:"title" gorm:"not null;size:200;index"`
	Description *string      `json:"description" gorm:"type:text"`
	Status      CourseStatus `json:"status" gorm:"not null;default:draft;size:20;index"`
	Price       float64      `json:"price" gorm:"not null;default:0"`

	// JSONB blobs for the course outline and cover image reference.
	Syllabus   datatypes.JSON `json:"syllabus,omitempty" gorm:"type:jsonb"`
	CoverImage datatypes.JSON `json:"cover_image,omitempty" gorm:"type:jsonb"`

	InstructorID string `json:"instructor_id" gorm:"not null;index;size:36"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}

type Enrollment struct {
	ID        string           `json:"id" gorm:"primaryKey;size:36"`
	CourseID  string           `json:"course_id" gorm:"not null;index:idx_enrollment_course_student,unique;size:36"`
	StudentID string           `json:"student_id" gorm:"not null;index:idx_enrollment_course_student,unique;size:36"`
	Status    EnrollmentStatus `json:"status" gorm:"not null;default:pending;size:20;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
