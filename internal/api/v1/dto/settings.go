package dto

import (
	"time"

	"streamlearn/internal/model"
)

// SettingsUpdateDTO replaces the site settings row
type SettingsUpdateDTO struct {
	SiteName            string `json:"site_name" validate:"required,max=80"`
	Logo                string `json:"logo" validate:"omitempty,url"`
	PrimaryColor        string `json:"primary_color" validate:"required,hexcolor"`
	SecondaryColor      string `json:"secondary_color" validate:"required,hexcolor"`
	MaintenanceMode     bool   `json:"maintenance_mode"`
	RegistrationEnabled bool   `json:"registration_enabled"`
	EmailNotifications  bool   `json:"email_notifications"`
}

func (d *SettingsUpdateDTO) ToModel() *model.SiteSettings {
	return &model.SiteSettings{
		SiteName:            d.SiteName,
		Logo:                d.Logo,
		PrimaryColor:        d.PrimaryColor,
		SecondaryColor:      d.SecondaryColor,
		MaintenanceMode:     d.MaintenanceMode,
		RegistrationEnabled: d.RegistrationEnabled,
		EmailNotifications:  d.EmailNotifications,
	}
}

// PublicSettingsResponseDTO is the branding any visitor may read
type PublicSettingsResponseDTO struct {
	SiteName            string `json:"site_name"`
	Logo                string `json:"logo"`
	PrimaryColor        string `json:"primary_color"`
	SecondaryColor      string `json:"secondary_color"`
	MaintenanceMode     bool   `json:"maintenance_mode"`
	RegistrationEnabled bool   `json:"registration_enabled"`
}

func NewPublicSettingsResponse(s *model.SiteSettings) PublicSettingsResponseDTO {
	return PublicSettingsResponseDTO{
		SiteName:            s.SiteName,
		Logo:                s.Logo,
		PrimaryColor:        s.PrimaryColor,
		SecondaryColor:      s.SecondaryColor,
		MaintenanceMode:     s.MaintenanceMode,
		RegistrationEnabled: s.RegistrationEnabled,
	}
}

// UploadRequestDTO asks for a presigned image upload
type UploadRequestDTO struct {
	Kind        string `json:"kind" validate:"required,oneof=course-thumbnail topic-thumbnail banner-image site-logo"`
	ContentType string `json:"content_type" validate:"required"`
}

// UploadResponseDTO is where to PUT the file and where it will be served from
type UploadResponseDTO struct {
	UploadURL string    `json:"upload_url"`
	ObjectKey string    `json:"object_key"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
