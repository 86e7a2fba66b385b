package models

import "strings"

// Cafe is a single venue and its amenities.
type Cafe struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Name         string  `json:"name" gorm:"type:varchar(250);uniqueIndex;not null"`
	MapURL       string  `json:"map_url" gorm:"type:varchar(500);not null"`
	ImgURL       string  `json:"img_url" gorm:"type:varchar(500);not null"`
	Location     string  `json:"location" gorm:"type:varchar(250);not null;index"`
	Seats        string  `json:"seats" gorm:"type:varchar(250);not null"`
	HasToilet    bool    `json:"has_toilet" gorm:"not null"`
	HasWifi      bool    `json:"has_wifi" gorm:"not null"`
	HasSockets   bool    `json:"has_sockets" gorm:"not null"`
	CanTakeCalls bool    `json:"can_take_calls" gorm:"not null"`
	CoffeePrice  *string `json:"coffee_price" gorm:"type:varchar(250)"`
}

// ToMap serializes the cafe field by field. A missing coffee price is
// emitted as null.
func (c *Cafe) ToMap() map[string]any {
	var price any
	if c.CoffeePrice != nil {
		price = *c.CoffeePrice
	}
	return map[string]any{
		"id":             c.ID,
		"name":           c.Name,
		"map_url":        c.MapURL,
		"img_url":        c.ImgURL,
		"location":       c.Location,
		"seats":          c.Seats,
		"has_toilet":     c.HasToilet,
		"has_wifi":       c.HasWifi,
		"has_sockets":    c.HasSockets,
		"can_take_calls": c.CanTakeCalls,
		"coffee_price":   price,
	}
}

// CafesToMaps serializes a slice of cafes, never returning nil so that an
// empty result encodes as [].
func CafesToMaps(cafes []Cafe) []map[string]any {
	out := make([]map[string]any, 0, len(cafes))
	for i := range cafes {
		out = append(out, cafes[i].ToMap())
	}
	return out
}

// ParseFlag coerces a form or spreadsheet value into an amenity flag.
// Any non-empty value is true except the explicit false literals.
func ParseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "f", "no", "n", "off":
		return false
	}
	return true
}
