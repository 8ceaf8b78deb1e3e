package model

// Domain is a coarse category of place-seeking intent. It drives which
// vocabulary and scoring rules apply.
type Domain string

const (
	DomainFood           Domain = "food"
	DomainStudyWork      Domain = "study_work"
	DomainFitness        Domain = "fitness"
	DomainEntertainment  Domain = "entertainment"
	DomainServices       Domain = "services"
	DomainShopping       Domain = "shopping"
	DomainHealthcare     Domain = "healthcare"
	DomainTransportation Domain = "transportation"
	DomainAccommodation  Domain = "accommodation"
	DomainBeauty         Domain = "beauty"
)

// Domains lists every domain in declaration order. Domain-detection ties
// break toward the earlier entry, which is deterministic but arbitrary.
var Domains = []Domain{
	DomainFood,
	DomainStudyWork,
	DomainFitness,
	DomainEntertainment,
	DomainServices,
	DomainShopping,
	DomainHealthcare,
	DomainTransportation,
	DomainAccommodation,
	DomainBeauty,
}

// Entity roles within a parsed query.
const (
	RolePrimary   = "primary"
	RoleReference = "reference"
)

// Confidence levels attached to intents and analyses.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Location constraint types.
const (
	LocationNearUser         = "near_user"
	LocationSpecificArea     = "specific_area"
	LocationRelativeToEntity = "relative_to_entity"
)

// Proximity tiers for near-user constraints.
const (
	ProximityVeryClose = "very_close"
	ProximityClose     = "close"
	ProximityModerate  = "moderate"
	ProximityFar       = "far"
)

// Entity is one place the query talks about. Exactly one entity per query
// has role "primary"; the rest are spatial references.
type Entity struct {
	Type        string   `json:"type"`
	Role        string   `json:"role"`
	Constraints []string `json:"constraints,omitempty"`
}

// SpatialRelationship links a primary entity to a reference entity
// ("restaurant near a park"). Parsed but not resolved by the pipeline:
// only the primary entity drives provider queries.
type SpatialRelationship struct {
	PrimaryEntity     string `json:"primary_entity"`
	Relationship      string `json:"relationship"`
	ReferenceEntity   string `json:"reference_entity"`
	MaxDistanceMeters int    `json:"max_distance_meters,omitempty"`
}

// LocationConstraints describes where the search should happen.
type LocationConstraints struct {
	Type      string `json:"type"`
	Value     string `json:"value,omitempty"`
	Proximity string `json:"proximity,omitempty"`
}

// ParsedIntent is the structured form of a free-text place query. The
// local parser fills the vocabulary-derived fields; the AI extractor
// enriches entities, spatial relationships, and location constraints.
type ParsedIntent struct {
	RawQuery  string `json:"raw_query"`
	QueryType string `json:"query_type,omitempty"` // single_entity | multi_entity
	Domain    Domain `json:"domain"`

	Entities             []Entity              `json:"entities"`
	SpatialRelationships []SpatialRelationship `json:"spatial_relationships,omitempty"`
	LocationConstraints  *LocationConstraints  `json:"location_constraints,omitempty"`

	PlaceTypes        []string            `json:"place_types,omitempty"`
	Attributes        map[string][]string `json:"attributes,omitempty"`
	SpecificItems     []string            `json:"specific_items,omitempty"`
	Constraints       []string            `json:"constraints,omitempty"`
	LocationModifiers []string            `json:"location_modifiers,omitempty"`

	DietaryRequirements []string `json:"dietary_requirements,omitempty"`
	CuisineTypes        []string `json:"cuisine_type,omitempty"`
	BudgetPreference    string   `json:"budget_preference,omitempty"`

	PrimaryIntent string `json:"primary_intent,omitempty"`
	Confidence    string `json:"confidence,omitempty"`
}

// PrimaryEntity returns the entity with role "primary", falling back to
// the first entity when roles are missing. Nil when there are no entities.
func (p *ParsedIntent) PrimaryEntity() *Entity {
	for i := range p.Entities {
		if p.Entities[i].Role == RolePrimary {
			return &p.Entities[i]
		}
	}
	if len(p.Entities) > 0 {
		return &p.Entities[0]
	}
	return nil
}

// Attribute returns the matched vocabulary terms for a category
// (cuisine, dietary, ambiance, features, equipment, study_features).
func (p *ParsedIntent) Attribute(category string) []string {
	if p.Attributes == nil {
		return nil
	}
	return p.Attributes[category]
}

// RequestedCities returns city names harvested from location modifiers.
func (p *ParsedIntent) RequestedCities() []string {
	var cities []string
	for _, m := range p.LocationModifiers {
		if len(m) > 5 && m[:5] == "city:" {
			cities = append(cities, m[5:])
		}
	}
	return cities
}
