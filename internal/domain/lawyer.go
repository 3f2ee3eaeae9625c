package domain

import "time"

// LawyerProfile is the directory entry for a user flagged as a lawyer.
type LawyerProfile struct {
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Specialty       string    `json:"specialty"`
	Location        string    `json:"location"`
	YearsExperience int       `json:"years_experience"`
	Rating          float64   `json:"rating"` // 0..5, directory average
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LawyerFilter narrows directory listings. Zero values mean "any".
type LawyerFilter struct {
	Specialty string
	Location  string
}
