package models

import "gorm.io/gorm"

// Message is a piece of internal mail between two users.
type Message struct {
	gorm.Model
	SenderID    uint `gorm:"index;not null"`
	RecipientID uint `gorm:"index;not null"`
	Body        string
	Read        bool `gorm:"default:false"`
}

// NotificationKind tags what triggered a notification.
type NotificationKind string

const (
	NotifyCourse     NotificationKind = "course"
	NotifyAssignment NotificationKind = "assignment"
	NotifyMessage    NotificationKind = "message"
	NotifyEnrollment NotificationKind = "enrollment"
	NotifyGrade      NotificationKind = "grade"
)

// Notification is a stored, fire-and-forget side effect of catalog and
// ledger events. Listing a user's notifications marks them read.
type Notification struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`
	Title  string
	Body   string
	Kind   NotificationKind
	Link   string
	Read   bool `gorm:"default:false"`
}
