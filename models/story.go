package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoutePoint struct {
	Lat   float64 `json:"lat" bson:"lat"`
	Lng   float64 `json:"lng" bson:"lng"`
	Label string  `json:"label" bson:"label"`
}

// Story is a traveller's account with an optional map route.
type Story struct {
	ID          string       `gorm:"primaryKey;type:varchar(36)" json:"id" bson:"_id"`
	Title       string       `gorm:"not null" json:"title" bson:"title"`
	Quote       string       `json:"quote" bson:"quote"`
	Description string       `gorm:"type:text;not null" json:"description" bson:"description"`
	MapImage    string       `json:"mapImage" bson:"mapImage"`
	PhotoImage  string       `json:"photoImage" bson:"photoImage"`
	RoutePoints []RoutePoint `gorm:"serializer:json" json:"routePoints" bson:"routePoints"`
	CreatedAt   time.Time    `gorm:"<-:create;index" json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updatedAt"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.RoutePoints == nil {
		s.RoutePoints = []RoutePoint{}
	}
	return nil
}

// ParseRoutePoints keeps only the entries of a JSON array whose lat and lng
// are both JSON numbers. Anything else, including a non-array value, yields
// an empty route rather than an error.
func ParseRoutePoints(raw json.RawMessage) []RoutePoint {
	points := []RoutePoint{}
	if len(raw) == 0 {
		return points
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return points
	}

	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lat, latOK := fields["lat"].(float64)
		lng, lngOK := fields["lng"].(float64)
		if !latOK || !lngOK {
			continue
		}
		label, _ := fields["label"].(string)
		points = append(points, RoutePoint{Lat: lat, Lng: lng, Label: label})
	}
	return points
}
