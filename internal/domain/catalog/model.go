package catalog

import "time"

// Service is a hospital department, the unit that submits activity reports.
// Reference data: seeded by migration, never mutated at runtime.
type Service struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	HasBeds     bool   `db:"has_beds" json:"has_beds"`
	BedCapacity int    `db:"bed_capacity" json:"bed_capacity"`
}

// FieldType is the closed set of types allowed for custom fields.
type FieldType string

const (
	FieldNumber  FieldType = "number"
	FieldText    FieldType = "text"
	FieldBoolean FieldType = "boolean"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldNumber, FieldText, FieldBoolean:
		return true
	}
	return false
}

// CustomField is an ad-hoc field a chef de service adds to their daily form.
type CustomField struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	Type    FieldType `json:"type"`
	Visible bool      `json:"visible"`
}

// Sections toggles which report sections the daily form renders.
type Sections struct {
	Movements     bool `json:"mouvements"`
	Consultations bool `json:"consultations"`
	Actes         bool `json:"actes"`
	Observations  bool `json:"observations"`
}

// DefaultSections enables every section.
func DefaultSections() Sections {
	return Sections{Movements: true, Consultations: true, Actes: true, Observations: true}
}

// ServiceConfig is the per-service customization of the daily capture form.
// Purely presentational: aggregation never consults it.
type ServiceConfig struct {
	ServiceID      string            `json:"service_id"`
	Sections       Sections          `json:"sections"`
	LabelOverrides map[string]string `json:"label_overrides"`
	HiddenFields   []string          `json:"hidden_fields"`
	CustomFields   []CustomField     `json:"custom_fields"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// DefaultConfig returns the configuration a service starts with.
func DefaultConfig(serviceID string) *ServiceConfig {
	return &ServiceConfig{
		ServiceID:      serviceID,
		Sections:       DefaultSections(),
		LabelOverrides: map[string]string{},
		HiddenFields:   []string{},
		CustomFields:   []CustomField{},
	}
}
