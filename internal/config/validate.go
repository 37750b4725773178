package config

import (
	"errors"
	"fmt"

	"backlog/internal/services"
)

// Validate ensures the configuration is usable. A failure here is the only
// fatal error class in the pipeline's scope: it surfaces before any record is
// processed.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validatePricing(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/backlog/config.toml"
		}
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Sprintf("llm.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'backlog config init')", defaultPath), nil)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.SimilarityThreshold < 0 || c.Pipeline.SimilarityThreshold > 1 {
		return errors.New("pipeline.similarity_threshold must be between 0 and 1")
	}
	if c.Pipeline.MaxGames < 0 {
		return errors.New("pipeline.max_games must not be negative")
	}
	if v := c.Vocabulary(); v.Len() == 0 {
		return errors.New("pipeline.genres must contain at least one label")
	}
	return nil
}

func (c *Config) validatePricing() error {
	if c.Pricing.InputUSDPerMtok < 0 || c.Pricing.OutputUSDPerMtok < 0 {
		return errors.New("pricing rates must not be negative")
	}
	return nil
}
