package models

import "github.com/shopspring/decimal"

// StaffMember is one employee available for the weekly horizon
type StaffMember struct {
	Name        string          `json:"name" yaml:"name"`                   // unique identifier, e.g. "Staff 3"
	DailyCost   decimal.Decimal `json:"daily_cost" yaml:"daily_cost"`       // cost of one worked day
	MinWorkDays int             `json:"min_work_days" yaml:"min_work_days"` // lower bound on days worked
	MaxWorkDays int             `json:"max_work_days" yaml:"max_work_days"` // upper bound on days worked
}

// DemandEntry is the required headcount for one day of the horizon
type DemandEntry struct {
	Day           string `json:"day" yaml:"day"`                       // weekday label, e.g. "Fri"
	RequiredCount int    `json:"required_count" yaml:"required_count"` // staff needed on that day
}
