package models

import "time"

type Company struct {
	ID           int64
	Title        string
	Address      string
	PhoneNumber  string
	OpeningHours string
	CreatedAt    time.Time
}

// CompanyBenefit is a reward a company exposes at a score threshold.
type CompanyBenefit struct {
	ID          int64
	CompanyID   int64
	Benefit     string
	Description string
	ScoreNeeded int
	Disabled    bool
}

// UserCompanyScore is the score a user has accumulated with one company.
type UserCompanyScore struct {
	UserID    int64
	CompanyID int64
	Score     int
}
