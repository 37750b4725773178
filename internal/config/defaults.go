package config

const (
	defaultHLTBBaseURL         = "https://howlongtobeat.com"
	defaultHLTBUserAgent       = "backlog/dev"
	defaultLLMBaseURL          = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel            = "gpt-4o-mini"
	defaultLLMTimeoutSeconds   = 30
	defaultMaxConcurrent       = 5
	defaultSimilarityThreshold = 0.85
	defaultGenreBatchSize      = 20
	defaultInputUSDPerMtok     = 0.15
	defaultOutputUSDPerMtok    = 0.60
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// defaultSkipPlatforms lists platforms the completion-time provider is known
// not to index, fantasy consoles mostly.
var defaultSkipPlatforms = []string{"Pico-8", "TIC-80"}

// Default returns the repository default configuration.
func Default() Config {
	return Config{
		HLTB: HLTB{
			BaseURL:   defaultHLTBBaseURL,
			UserAgent: defaultHLTBUserAgent,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Pipeline: Pipeline{
			MaxConcurrent:       defaultMaxConcurrent,
			SimilarityThreshold: defaultSimilarityThreshold,
			GenreBatchSize:      defaultGenreBatchSize,
			SkipPlatforms:       append([]string{}, defaultSkipPlatforms...),
		},
		Pricing: Pricing{
			InputUSDPerMtok:  defaultInputUSDPerMtok,
			OutputUSDPerMtok: defaultOutputUSDPerMtok,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
