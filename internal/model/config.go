package model

import "time"

// Config is the full runtime configuration, assembled by the CLI from
// defaults, the config file, environment variables, and flags.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Providers ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Chat      ChatConfig      `yaml:"chat" mapstructure:"chat"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// HTTPConfig controls the outbound HTTP client shared by provider calls.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
}

// ServerConfig controls the HTTP API listener.
type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// ProviderConfig holds one provider's credentials and endpoint.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ProvidersConfig holds the place-data provider settings.
type ProvidersConfig struct {
	Google ProviderConfig `yaml:"google" mapstructure:"google"`
	Yelp   ProviderConfig `yaml:"yelp" mapstructure:"yelp"`
	// CacheDir enables the persistent response cache when set.
	CacheDir          string        `yaml:"cache_dir" mapstructure:"cache_dir"`
	CacheTTL          time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// OpenAIConfig holds the AI service settings.
type OpenAIConfig struct {
	APIKey    string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Model     string        `yaml:"model" mapstructure:"model"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SearchConfig holds pipeline tuning knobs.
type SearchConfig struct {
	MaxResults     int `yaml:"max_results" mapstructure:"max_results"`
	MaxSuggestions int `yaml:"max_suggestions" mapstructure:"max_suggestions"`
	// MinCandidates is the threshold below which the fallback search runs.
	MinCandidates int `yaml:"min_candidates" mapstructure:"min_candidates"`

	SpecificAreaRadiusMeters int `yaml:"specific_area_radius_meters" mapstructure:"specific_area_radius_meters"`
	DefaultRadiusMeters      int `yaml:"default_radius_meters" mapstructure:"default_radius_meters"`
	FallbackRadiusMeters     int `yaml:"fallback_radius_meters" mapstructure:"fallback_radius_meters"`

	// RegionKeywords gate provider results to the served metro: a result
	// whose address contains none of them is discarded.
	RegionKeywords []string `yaml:"region_keywords" mapstructure:"region_keywords"`

	MaxSameChain            int     `yaml:"max_same_chain" mapstructure:"max_same_chain"`
	MinChainDistanceMeters  float64 `yaml:"min_chain_distance_meters" mapstructure:"min_chain_distance_meters"`
	DisableRelevanceAnalyze bool    `yaml:"disable_relevance_analyze" mapstructure:"disable_relevance_analyze"`
}

// ChatConfig holds chat persistence settings.
type ChatConfig struct {
	DBPath       string `yaml:"db_path" mapstructure:"db_path"`
	HistoryLimit int    `yaml:"history_limit" mapstructure:"history_limit"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Development bool   `yaml:"development" mapstructure:"development"`
	Level       string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:   25 * time.Second,
			UserAgent: "AroundMe/0.1 (+https://github.com/aroundme/aroundme)",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5000,
		},
		Providers: ProvidersConfig{
			Google:            ProviderConfig{BaseURL: "https://places.googleapis.com/v1"},
			Yelp:              ProviderConfig{BaseURL: "https://api.yelp.com/v3"},
			CacheTTL:          10 * time.Minute,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		OpenAI: OpenAIConfig{
			Model:     "gpt-4o-mini",
			Timeout:   30 * time.Second,
			MaxTokens: 800,
		},
		Search: SearchConfig{
			MaxResults:               8,
			MaxSuggestions:           10,
			MinCandidates:            5,
			SpecificAreaRadiusMeters: 25000,
			DefaultRadiusMeters:      15000,
			FallbackRadiusMeters:     20000,
			RegionKeywords:           []string{"texas", "tx", "dallas", "fort worth"},
			MaxSameChain:             2,
			MinChainDistanceMeters:   200,
		},
		Chat: ChatConfig{
			DBPath:       "db/chat.db",
			HistoryLimit: 30,
		},
		Log: LogConfig{
			Development: false,
			Level:       "info",
		},
	}
}
