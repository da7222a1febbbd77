package model

import "time"

// ScoreSnapshot is the normalized score for one product x user x section.
// Recomputation deletes and replaces the prior snapshot for the key; no
// history is kept.
type ScoreSnapshot struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	ProductID    string    `json:"productId" bson:"productId"`
	UserID       string    `json:"userId" bson:"userId"`
	Section      string    `json:"section" bson:"section"`
	TotalScore   int       `json:"totalScore" bson:"totalScore"`
	MaxScore     int       `json:"maxScore" bson:"maxScore"`
	Percentage   float64   `json:"percentage" bson:"percentage"`
	Answered     int       `json:"answered" bson:"answered"`
	CalculatedAt time.Time `json:"calculatedAt" bson:"calculatedAt"`
}

// DimensionScore is one row of the raw 1-5 maturity heat-map.
type DimensionScore struct {
	Dimension    string  `json:"dimension"`
	AverageScore float64 `json:"averageScore"`
	TotalScore   int     `json:"totalScore"`
	Answered     int     `json:"answered"`
	Level        int     `json:"level"`
	LevelName    string  `json:"levelName"`
}

// MaturityReport is the full heat-map plus the equally-weighted overall score.
type MaturityReport struct {
	ProductID     string           `json:"productId"`
	MaturityScore int              `json:"maturityScore"`
	MaturityLevel string           `json:"maturityLevel"`
	Dimensions    []DimensionScore `json:"dimensions"`
}

var maturityLevelNames = map[int]string{
	0: "Not Assessed",
	1: "Initial",
	2: "Developing",
	3: "Defined",
	4: "Managed",
	5: "Optimized",
}

// MaturityLevelName maps a 0-5 level to its display name.
func MaturityLevelName(level int) string {
	if name, ok := maturityLevelNames[level]; ok {
		return name
	}
	return "Unknown"
}
