// Package config loads and validates the service's TOML configuration file:
// the listener address, backend URL, and the policy set. Parsed with
// github.com/BurntSushi/toml, then validated via struct tags with
// github.com/go-playground/validator/v10.
package config

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/policy"
	apperrors "github.com/chris-alexander-pop/ratelimiter/pkg/errors"
)

// ServerConfig describes the RPC listener and backend connection.
type ServerConfig struct {
	Address        string `toml:"address" validate:"required"`
	RedisURL       string `toml:"redis_url" validate:"required"`
	RedisTimeoutMs uint64 `toml:"redis_timeout_ms" validate:"required,min=1"`
}

// PolicyDefinition is the TOML shape of a policy's token budget.
type PolicyDefinition struct {
	MaxTokens uint32 `toml:"max_tokens" validate:"required,min=1"`
	WindowSec uint64 `toml:"window_secs" validate:"required,min=1"`
}

// PolicyRule is one `[[policies]]` entry: a match pattern flattened together
// with the definition it grants.
type PolicyRule struct {
	Pattern   string `toml:"pattern" validate:"required"`
	Type      string `toml:"type" validate:"required,oneof=exact prefix"`
	MaxTokens uint32 `toml:"max_tokens" validate:"required,min=1"`
	WindowSec uint64 `toml:"window_secs" validate:"required,min=1"`
	Priority  uint32 `toml:"priority"`
}

// Config is the full TOML document this service is started with.
type Config struct {
	Server        ServerConfig     `toml:"server" validate:"required"`
	DefaultPolicy PolicyDefinition `toml:"default_policy" validate:"required"`
	Policies      []PolicyRule     `toml:"policies" validate:"dive"`
}

// Load reads and validates a TOML config file at path. Any I/O or parse
// failure is returned wrapped; callers treat it as fatal at startup.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "failed to read config file "+path, err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, apperrors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// RedisTimeout is the per-backend-call deadline derived from the
// configured millisecond value.
func (c *Config) RedisTimeout() time.Duration {
	return time.Duration(c.Server.RedisTimeoutMs) * time.Millisecond
}

// Resolver builds the runtime policy.Resolver from the loaded document.
func (c *Config) Resolver() *policy.Resolver {
	rules := make([]policy.Rule, 0, len(c.Policies))
	for _, p := range c.Policies {
		patternType := policy.PatternExact
		if p.Type == "prefix" {
			patternType = policy.PatternPrefix
		}
		rules = append(rules, policy.Rule{
			Pattern:     p.Pattern,
			PatternType: patternType,
			Definition: policy.Definition{
				MaxTokens: p.MaxTokens,
				WindowSec: uint32(p.WindowSec),
			},
			Priority: int(p.Priority),
		})
	}

	return policy.NewResolver(rules, policy.Definition{
		MaxTokens: c.DefaultPolicy.MaxTokens,
		WindowSec: uint32(c.DefaultPolicy.WindowSec),
	})
}
