package model

import "time"

// CourseLevel indicates the intended audience of a course.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// Course represents a purchasable course in the catalog.
// Prices are stored in paise to keep arithmetic exact.
type Course struct {
	ID            int         `json:"id"`
	CategoryID    int         `json:"category_id"`
	TutorID       *int        `json:"tutor_id,omitempty"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Description   string      `json:"description"`
	Level         CourseLevel `json:"level"`
	DurationHours int         `json:"duration_hours"`
	PricePaise    int64       `json:"price_paise"`
	ThumbnailURL  string      `json:"thumbnail_url,omitempty"`
	Published     bool        `json:"published"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// CourseFilter narrows catalog listings.
type CourseFilter struct {
	CategorySlug string
	Level        string
	Search       string
	Page         int
	PerPage      int
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	CategoryID    int    `json:"category_id" binding:"required"`
	TutorID       *int   `json:"tutor_id" binding:"omitempty"`
	Title         string `json:"title" binding:"required,min=3,max=255"`
	Slug          string `json:"slug" binding:"required,min=3,max=255"`
	Description   string `json:"description" binding:"omitempty,max=5000"`
	Level         string `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	DurationHours int    `json:"duration_hours" binding:"required,min=1,max=1000"`
	PricePaise    int64  `json:"price_paise" binding:"required,min=0"`
	ThumbnailURL  string `json:"thumbnail_url" binding:"omitempty,max=500"`
	Published     bool   `json:"published"`
}

// UpdateCourseRequest is the payload for updating a course.
type UpdateCourseRequest struct {
	CategoryID    int    `json:"category_id" binding:"required"`
	TutorID       *int   `json:"tutor_id" binding:"omitempty"`
	Title         string `json:"title" binding:"required,min=3,max=255"`
	Slug          string `json:"slug" binding:"required,min=3,max=255"`
	Description   string `json:"description" binding:"omitempty,max=5000"`
	Level         string `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	DurationHours int    `json:"duration_hours" binding:"required,min=1,max=1000"`
	PricePaise    int64  `json:"price_paise" binding:"required,min=0"`
	ThumbnailURL  string `json:"thumbnail_url" binding:"omitempty,max=500"`
	Published     bool   `json:"published"`
}
