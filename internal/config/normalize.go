package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.HLTB.BaseURL = strings.TrimSpace(c.HLTB.BaseURL)
	if c.HLTB.BaseURL == "" {
		c.HLTB.BaseURL = defaultHLTBBaseURL
	}
	c.HLTB.UserAgent = strings.TrimSpace(c.HLTB.UserAgent)
	if c.HLTB.UserAgent == "" {
		c.HLTB.UserAgent = defaultHLTBUserAgent
	}

	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}

	if c.Pipeline.MaxConcurrent <= 0 {
		c.Pipeline.MaxConcurrent = defaultMaxConcurrent
	}
	if c.Pipeline.SimilarityThreshold == 0 {
		c.Pipeline.SimilarityThreshold = defaultSimilarityThreshold
	}
	if c.Pipeline.GenreBatchSize <= 0 {
		c.Pipeline.GenreBatchSize = defaultGenreBatchSize
	}
	if c.Pipeline.SkipPlatforms == nil {
		c.Pipeline.SkipPlatforms = append([]string{}, defaultSkipPlatforms...)
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
