// FILE: pkg/rag/gate/gate.go
// PURPOSE: Runtime on/off switch for knowledge-base context

package gate

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"studyroom-be/internal/entity"
	"studyroom-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const module = "KB_GATE"

// Gate reports whether knowledge-base context may be used right now.
// Implementations must not cache: the operator can flip the switch between requests.
type Gate interface {
	IsEnabled(ctx context.Context) bool
}

// Func adapts a plain function to Gate.
type Func func(ctx context.Context) bool

func (f Func) IsEnabled(ctx context.Context) bool {
	return f(ctx)
}

// Static is a fixed switch, typically fed from the environment.
type Static bool

func (s Static) IsEnabled(context.Context) bool {
	return bool(s)
}

// ConfigReader is the slice of the AI configuration repository the gate needs.
type ConfigReader interface {
	FindConfigurationByKey(ctx context.Context, key string) (*entity.AiConfiguration, error)
}

// ConfigGate reads the knowledge_base_enabled row of ai_configurations on every call.
// A missing row falls back to Default; a read failure closes the gate.
type ConfigGate struct {
	reader  ConfigReader
	Default bool
	logger  logger.ILogger
}

func NewConfigGate(reader ConfigReader, fallback bool, log logger.ILogger) *ConfigGate {
	return &ConfigGate{reader: reader, Default: fallback, logger: log}
}

func (g *ConfigGate) IsEnabled(ctx context.Context) bool {
	cfg, err := g.reader.FindConfigurationByKey(ctx, entity.AiConfigKeyKnowledgeBaseEnabled)
	if err != nil {
		g.logger.Warn(module, "Failed to read gate configuration, treating as disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	if cfg == nil {
		return g.Default
	}

	enabled, err := parseBool(cfg.Value)
	if err != nil {
		g.logger.Warn(module, "Invalid gate configuration value, treating as disabled", map[string]interface{}{
			"value": cfg.Value,
		})
		return false
	}
	return enabled
}

// RedisGetter is satisfied by *redis.Client.
type RedisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisGate reads an operator kill-switch key on every call.
// A missing key defers to Fallback; a redis error closes the gate.
type RedisGate struct {
	client   RedisGetter
	key      string
	Fallback Gate
	logger   logger.ILogger
}

func NewRedisGate(client RedisGetter, key string, fallback Gate, log logger.ILogger) *RedisGate {
	if fallback == nil {
		fallback = Static(false)
	}
	return &RedisGate{client: client, key: key, Fallback: fallback, logger: log}
}

func (g *RedisGate) IsEnabled(ctx context.Context) bool {
	val, err := g.client.Get(ctx, g.key).Result()
	if errors.Is(err, redis.Nil) {
		return g.Fallback.IsEnabled(ctx)
	}
	if err != nil {
		g.logger.Warn(module, "Failed to read gate key, treating as disabled", map[string]interface{}{
			"key":   g.key,
			"error": err.Error(),
		})
		return false
	}

	enabled, err := parseBool(val)
	if err != nil {
		g.logger.Warn(module, "Invalid gate key value, treating as disabled", map[string]interface{}{
			"key":   g.key,
			"value": val,
		})
		return false
	}
	return enabled
}

func parseBool(raw string) (bool, error) {
	v := strings.Trim(strings.TrimSpace(raw), `"`)
	switch strings.ToLower(v) {
	case "on", "yes", "enabled":
		return true, nil
	case "off", "no", "disabled":
		return false, nil
	}
	return strconv.ParseBool(v)
}
