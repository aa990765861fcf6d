package models

import "time"

// RegimeObservation is one classified read of the oracle feed.
type RegimeObservation struct {
	Timestamp  time.Time  `json:"timestamp"`
	Price      float64    `json:"price"`
	Intensity  float64    `json:"intensity"`
	Regime     Regime     `json:"regime"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason"`
	Degraded   bool       `json:"degraded"` // feed was unavailable and the fallback applied
}
