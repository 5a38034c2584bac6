package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CourseStatus is the course lifecycle: draft -> published -> archived.
// Only published courses are visible in the catalog and open to enrollment.
type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

func (s CourseStatus) Valid() bool {
	switch s {
	case CourseDraft, CoursePublished, CourseArchived:
		return true
	}
	return false
}

type Course struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	OwnerID     uint         `gorm:"index;not null"`
	Owner       User         `gorm:"foreignKey:OwnerID"`
	Status      CourseStatus `gorm:"default:draft"`
	FileURL     string
	ImageURL    string
	StartDate   *time.Time
	EndDate     *time.Time
	Modules     []Module     `gorm:"constraint:OnDelete:CASCADE"`
	Assignments []Assignment `gorm:"constraint:OnDelete:CASCADE"`
	Events      []Event      `gorm:"constraint:OnDelete:CASCADE"`
	Enrollments []Enrollment `gorm:"constraint:OnDelete:CASCADE"`
}

// Module is a chapter of a course. Position orders modules for display;
// it is not unique, ties break on creation time.
type Module struct {
	gorm.Model
	CourseID    uint `gorm:"index;not null"`
	Title       string
	Description string
	Position    int        `gorm:"default:0"`
	Resources   []Resource `gorm:"constraint:OnDelete:CASCADE"`
}

// ResourceKind is the kind of a pedagogical resource.
type ResourceKind string

const (
	ResourceDocument ResourceKind = "document"
	ResourceVideo    ResourceKind = "video"
	ResourceLink     ResourceKind = "link"
	ResourceImage    ResourceKind = "image"
)

func (k ResourceKind) Valid() bool {
	switch k {
	case ResourceDocument, ResourceVideo, ResourceLink, ResourceImage:
		return true
	}
	return false
}

type Resource struct {
	gorm.Model
	ModuleID    uint `gorm:"index;not null"`
	Name        string
	Kind        ResourceKind
	URL         string
	FileURL     string
	Description string
	Position    int `gorm:"default:0"`
}

// Validate enforces the kind/content invariant: videos and links carry a
// URL, documents and images carry a URL or an attached file.
func (r *Resource) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("unknown resource kind %q", r.Kind)
	}
	switch r.Kind {
	case ResourceVideo, ResourceLink:
		if r.URL == "" {
			return fmt.Errorf("a URL is required for %s resources", r.Kind)
		}
	case ResourceDocument, ResourceImage:
		if r.URL == "" && r.FileURL == "" {
			return fmt.Errorf("a URL or file is required for %s resources", r.Kind)
		}
	}
	return nil
}

// EventKind is the kind of a course calendar event.
type EventKind string

const (
	EventExam       EventKind = "exam"
	EventSession    EventKind = "session"
	EventConference EventKind = "conference"
	EventOther      EventKind = "other"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventExam, EventSession, EventConference, EventOther:
		return true
	}
	return false
}

// Event is a calendar entry attached to a course (exams, sessions, ...).
// Events are managed by administrators only.
type Event struct {
	gorm.Model
	CourseID    uint `gorm:"index;not null"`
	Title       string
	Description string
	Kind        EventKind
	StartsAt    time.Time
	EndsAt      time.Time
	Location    string
}
