package model

import (
	"errors"
	"time"
)

// Notification types
const (
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationSuccess = "success"
)

var (
	ErrEmptyMessage       = errors.New("notification message cannot be empty")
	ErrInvalidType        = errors.New("notification type must be one of: info, warning, success")
	ErrButtonIncomplete   = errors.New("notification button requires text and url")
	ValidNotificationType = []string{NotificationInfo, NotificationWarning, NotificationSuccess}
)

// Notification is a site-wide message with an optional call to action.
// Message is Markdown.
type Notification struct {
	NotificationID int64     `db:"id" json:"notification_id"`
	Message        string    `db:"message" json:"message"`
	Type           string    `db:"type" json:"type"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	HasButton      bool      `db:"has_button" json:"has_button"`
	ButtonText     string    `db:"button_text" json:"button_text,omitempty"`
	ButtonURL      string    `db:"button_url" json:"button_url,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

func (n *Notification) Validate() error {
	if n.Message == "" {
		return ErrEmptyMessage
	}
	valid := false
	for _, t := range ValidNotificationType {
		if n.Type == t {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidType
	}
	if n.HasButton && (n.ButtonText == "" || n.ButtonURL == "") {
		return ErrButtonIncomplete
	}
	return nil
}
