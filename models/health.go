package models

import "time"

// DatasetStatus describes the tables loaded at startup
type DatasetStatus struct {
	Status   string    `json:"status"` // "ok" or "empty"
	Source   string    `json:"source"`
	Records  int       `json:"records"`
	Airports int       `json:"airports"`
	Airlines int       `json:"airlines"`
	MinDate  string    `json:"minDate,omitempty"`
	MaxDate  string    `json:"maxDate,omitempty"`
	LoadedAt time.Time `json:"loadedAt"`
}
