package model

import "time"

// Banner is a promotional carousel item
type Banner struct {
	BannerID    int64     `db:"id" json:"banner_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Image       string    `db:"image" json:"image"`
	Link        string    `db:"link" json:"link"`
	ButtonText  string    `db:"button_text" json:"button_text"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultBannerButtonText is shown when a banner has no button label.
const DefaultBannerButtonText = "Ver mais"

// ActiveBanners keeps the banners flagged active, preserving order.
func ActiveBanners(banners []Banner) []Banner {
	active := make([]Banner, 0, len(banners))
	for _, b := range banners {
		if b.IsActive {
			active = append(active, b)
		}
	}
	return active
}
