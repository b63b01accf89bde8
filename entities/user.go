package entities

import "time"

// CropRecord is one crop the user currently grows; stored on the user so
// recommendation endpoints can assemble a context without a farm service.
type CropRecord struct {
	Name         string     `json:"name"`
	Variety      string     `json:"variety,omitempty"`
	Area         float64    `json:"area,omitempty"`
	PlantingDate *time.Time `json:"planting_date,omitempty"`
	Season       string     `json:"season,omitempty"`
}

type User struct {
	ID              string       `gorm:"primaryKey" json:"id"`
	Name            string       `json:"name"`
	Phone           string       `gorm:"index" json:"phone"`
	Email           string       `gorm:"index" json:"email"`
	ExperienceYears int          `json:"experience_years"`
	FarmingType     string       `json:"farming_type"` // organic|conventional|mixed
	Location        string       `json:"location"`
	State           string       `json:"state"`
	SoilType        string       `json:"soil_type"`       // clay|loam|sandy|black|red
	IrrigationType  string       `json:"irrigation_type"` // drip|sprinkler|flood|rainfed
	Crops           []CropRecord `gorm:"serializer:json" json:"crops"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
