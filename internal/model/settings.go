package model

import "time"

// SiteSettings is the single row of platform-wide switches
type SiteSettings struct {
	SiteName            string    `db:"site_name" json:"site_name"`
	Logo                string    `db:"logo" json:"logo"`
	PrimaryColor        string    `db:"primary_color" json:"primary_color"`
	SecondaryColor      string    `db:"secondary_color" json:"secondary_color"`
	MaintenanceMode     bool      `db:"maintenance_mode" json:"maintenance_mode"`
	RegistrationEnabled bool      `db:"registration_enabled" json:"registration_enabled"`
	EmailNotifications  bool      `db:"email_notifications" json:"email_notifications"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultSiteSettings mirrors the seeded settings row.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		SiteName:            "StreamLearn",
		PrimaryColor:        "#E50914",
		SecondaryColor:      "#221F1F",
		RegistrationEnabled: true,
		EmailNotifications:  true,
	}
}
