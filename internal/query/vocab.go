package query

import "github.com/aroundme/aroundme/internal/model"

// Vocabulary tables are configurable lookup data, not logic: extending a
// list changes matching behavior without touching the parser. Matching is
// substring-based and deliberately permissive; short or ambiguous terms
// risk false positives, so lists must stay reproducible.

// domainVocabulary binds a domain to its keyword list and weight.
type domainVocabulary struct {
	Domain   model.Domain
	Keywords []string
	Weight   float64
}

// domainVocabularies in declaration order; ties in domain detection break
// toward the earlier entry.
var domainVocabularies = []domainVocabulary{
	{
		Domain: model.DomainFood,
		Keywords: []string{
			"restaurant", "cafe", "coffee", "bar", "pub", "bakery", "food",
			"eat", "dine", "lunch", "dinner", "breakfast", "brunch", "meal",
			"cuisine", "bistro", "diner", "grill", "pizza", "burger", "sushi",
		},
		Weight: 1.0,
	},
	{
		Domain: model.DomainStudyWork,
		Keywords: []string{
			"study", "work", "library", "coworking", "laptop", "wifi",
			"quiet", "meeting", "workspace", "desk", "productive", "focus",
		},
		Weight: 0.9,
	},
	{
		Domain: model.DomainFitness,
		Keywords: []string{
			"gym", "fitness", "yoga", "pilates", "crossfit", "workout",
			"exercise", "pool", "swimming", "sports", "martial", "dance",
			"training", "wellness", "health club",
		},
		Weight: 1.0,
	},
	{
		Domain: model.DomainEntertainment,
		Keywords: []string{
			"movie", "theater", "cinema", "park", "museum", "zoo",
			"aquarium", "bowling", "arcade", "club", "nightclub", "concert",
			"gallery", "attraction", "amusement",
		},
		Weight: 1.0,
	},
	{
		Domain: model.DomainServices,
		Keywords: []string{
			"bank", "post", "atm", "insurance", "repair", "service",
			"laundry", "dry clean", "print", "ship", "notary", "tax",
		},
		Weight: 0.8,
	},
	{
		Domain: model.DomainShopping,
		Keywords: []string{
			"shop", "store", "mall", "market", "grocery", "supermarket",
			"boutique", "outlet", "buy", "purchase", "retail",
		},
		Weight: 0.9,
	},
	{
		Domain: model.DomainHealthcare,
		Keywords: []string{
			"hospital", "clinic", "doctor", "medical", "dentist",
			"pharmacy", "urgent care", "emergency", "health", "veterinary",
			"vet", "optometry", "therapy",
		},
		Weight: 1.0,
	},
	{
		Domain: model.DomainTransportation,
		Keywords: []string{
			"gas", "petrol", "parking", "car", "rental", "taxi",
			"uber", "lyft", "bus", "train", "metro", "subway",
		},
		Weight: 0.9,
	},
	{
		Domain: model.DomainAccommodation,
		Keywords: []string{
			"hotel", "motel", "hostel", "inn", "resort", "lodge",
			"accommodation", "stay", "airbnb", "bed breakfast", "b&b",
		},
		Weight: 1.0,
	},
	{
		Domain: model.DomainBeauty,
		Keywords: []string{
			"salon", "spa", "barber", "hair", "nail", "beauty",
			"makeup", "cosmetic", "massage", "facial", "wax",
		},
		Weight: 0.9,
	},
}

// Cuisines recognized in the food domain.
var Cuisines = []string{
	"indian", "chinese", "italian", "mexican", "thai", "japanese", "korean",
	"vietnamese", "french", "american", "mediterranean", "greek", "turkish",
	"lebanese", "ethiopian", "spanish", "german", "brazilian", "peruvian",
	"pakistani", "bangladeshi", "nepalese", "sri lankan", "south indian",
	"north indian", "punjabi", "gujarati", "bengali", "tamil",
}

// fallbackCuisines are the cuisine words checked when no domain keyword
// matched; any hit defaults the query to the food domain.
var fallbackCuisines = []string{
	"indian", "chinese", "italian", "mexican", "thai", "japanese",
	"korean", "vietnamese", "french", "american", "mediterranean",
}

// Dietary preference terms.
var Dietary = []string{
	"vegetarian", "vegan", "halal", "kosher", "gluten-free", "dairy-free",
	"nut-free", "organic", "healthy", "keto", "paleo",
}

// fallbackFoodTerms also default a zero-score query to the food domain.
var fallbackFoodTerms = []string{"vegetarian", "vegan", "halal", "kosher", "organic"}

// Ambiance terms.
var Ambiance = []string{
	"quiet", "lively", "romantic", "casual", "formal", "cozy", "modern",
	"traditional", "trendy", "authentic", "upscale", "budget", "family-friendly",
	"kid-friendly", "pet-friendly", "outdoor", "indoor", "rooftop", "waterfront",
}

// Feature terms.
var Features = []string{
	"wifi", "internet", "parking", "delivery", "takeout", "reservation",
	"live music", "tv", "games", "pool table", "dance floor", "karaoke",
	"happy hour", "brunch", "buffet", "drive-thru", "curbside", "patio",
	"terrace", "garden", "view", "fireplace", "bar", "lounge",
}

// TimeConstraints recognized verbatim as constraints.
var TimeConstraints = []string{
	"24 hour", "24-hour", "24/7", "late night", "early morning", "open now",
	"open late", "breakfast", "lunch", "dinner", "weekend", "weekday",
}

// GymEquipment terms for the fitness domain.
var GymEquipment = []string{
	"treadmill", "weights", "pool", "sauna", "steam", "yoga", "pilates",
	"cycling", "spinning", "crossfit", "personal trainer", "classes",
	"shower", "locker", "towel service",
}

// StudyFeatures terms for the study/work domain.
var StudyFeatures = []string{
	"quiet", "wifi", "outlets", "power outlets", "seating", "tables",
	"natural light", "coffee", "snacks", "printer", "meeting room",
	"whiteboard", "monitor", "ergonomic",
}

// IndianDishes recognized as specific items in the food domain.
var IndianDishes = []string{
	"dosa", "idli", "sambar", "vada", "uttapam", "biryani", "curry",
	"naan", "tandoori", "tikka", "masala", "chai", "lassi", "chutney",
	"paneer", "dal", "roti", "paratha", "kulfi", "samosa", "pakora",
	"thali", "puri", "bhaji", "korma", "vindaloo", "palak", "bhel",
	"pav bhaji", "chole", "rajma", "kheer", "halwa", "gulab jamun",
}

// commonFoodItems also recognized as specific items.
var commonFoodItems = []string{
	"coffee", "tea", "chai", "beer", "wine", "cocktail",
	"breakfast", "lunch", "dinner", "brunch", "dessert",
}

// placeTypesByDomain maps a domain to its place-type vocabulary and the
// default types used when none is mentioned.
var placeTypesByDomain = map[model.Domain]struct {
	Types    []string
	Defaults []string
}{
	model.DomainFood: {
		Types: []string{
			"restaurant", "cafe", "coffee shop", "bar", "pub",
			"bakery", "diner", "bistro", "food truck", "buffet",
		},
		Defaults: []string{"restaurant"},
	},
	model.DomainFitness: {
		Types: []string{
			"gym", "yoga studio", "fitness center", "health club",
			"crossfit", "martial arts", "dance studio", "pilates studio",
		},
		Defaults: []string{"gym"},
	},
	model.DomainStudyWork: {
		Types:    []string{"library", "coffee shop", "cafe", "coworking space", "workspace"},
		Defaults: []string{"cafe", "library"},
	},
}

// KnownCities is the gazetteer of metro-area city names recognized in
// location modifiers and area detection.
var KnownCities = []string{
	"frisco", "plano", "dallas", "mckinney", "allen", "richardson",
	"garland", "irving", "carrollton", "lewisville", "flower mound",
	"the colony", "little elm", "prosper", "celina", "addison",
	"arlington", "fort worth", "grapevine", "southlake", "colleyville",
	"mesquite", "denton", "cedar hill", "desoto", "duncanville",
	"grand prairie", "euless", "bedford", "hurst", "coppell",
	"farmers branch", "university park", "highland park",
	"rowlett", "wylie", "rockwall",
}

// locationTerms recognized as bare location modifiers.
var locationTerms = []string{"near", "in", "around", "close to", "nearby", "within"}

// Price sentiment words mapped to constraints.
var (
	budgetWords  = []string{"cheap", "budget", "affordable", "inexpensive"}
	upscaleWords = []string{"expensive", "upscale", "luxury", "premium"}
)
