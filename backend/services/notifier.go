// Package services holds side-effect collaborators consumed by the
// controllers through interfaces.
package services

import (
	"log"
	"routinet/backend/models"

	"gorm.io/gorm"
)

// Notifier delivers fire-and-forget notifications. Delivery failures must
// never fail the request that triggered them.
type Notifier interface {
	Notify(userID uint, kind models.NotificationKind, title, body, link string)
}

type dbNotifier struct {
	db     *gorm.DB
	logger *log.Logger
}

// NewNotifier returns a Notifier persisting notifications to the database.
func NewNotifier(db *gorm.DB, logger *log.Logger) Notifier {
	return &dbNotifier{db: db, logger: logger}
}

func (n *dbNotifier) Notify(userID uint, kind models.NotificationKind, title, body, link string) {
	notification := models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
		Kind:   kind,
		Link:   link,
	}
	if err := n.db.Create(&notification).Error; err != nil {
		n.logger.Printf("notify user %d: %v", userID, err)
	}
}
