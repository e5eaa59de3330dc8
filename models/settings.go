package models

import "time"

// SettingsID is the primary key of the single settings row.
const SettingsID uint = 1

type Settings struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	SiteName       string    `json:"siteName"`
	ContactEmail   string    `json:"contactEmail"`
	SupportEmail   string    `json:"supportEmail"`
	PrivacyPolicy  string    `gorm:"type:text" json:"privacyPolicy"`
	TermsOfService string    `gorm:"type:text" json:"termsOfService"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:       SettingsID,
		SiteName: "IntelliBiz",
	}
}
