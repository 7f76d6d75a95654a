// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"github.com/takshd15/elite-signup/internal/domain"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// EmbeddingsBackend selects the similarity backend: onnx, api, or bow.
	// The resolver falls through to bow when the chosen backend cannot start.
	EmbeddingsBackend string `env:"EMBEDDINGS_BACKEND" envDefault:"onnx"`

	// Local ONNX backend.
	EmbeddingsModelDir string `env:"EMBEDDINGS_MODEL_DIR" envDefault:"./models/all-MiniLM-L6-v2"`
	EmbeddingsONNXFile string `env:"EMBEDDINGS_ONNX_FILE" envDefault:"model.onnx"`
	ONNXSharedLibPath  string `env:"ONNX_SHARED_LIB_PATH" envDefault:""`
	ORTIntraOpThreads  int    `env:"ORT_INTRA_OP_NUM_THREADS" envDefault:"1"`
	ORTInterOpThreads  int    `env:"ORT_INTER_OP_NUM_THREADS" envDefault:"1"`

	// Remote OpenAI-compatible backend.
	OpenAIAPIKey         string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL        string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	EmbeddingsModel      string        `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`
	EmbedMaxInputTokens  int           `env:"EMBED_MAX_INPUT_TOKENS" envDefault:"8000"`
	EmbedTimeout         time.Duration `env:"EMBED_TIMEOUT" envDefault:"30s"`
	EmbedRetryMaxElapsed time.Duration `env:"EMBED_RETRY_MAX_ELAPSED" envDefault:"120s"`

	// LexiconDir holds optional override files for the built-in lexicons.
	LexiconDir string `env:"LEXICON_DIR" envDefault:"./data/lexicon"`

	// WeightsFile optionally overrides component weights from a YAML file.
	// Individual WEIGHT_* variables take precedence over the file.
	WeightsFile      string  `env:"WEIGHTS_FILE" envDefault:""`
	WeightEducation  float64 `env:"WEIGHT_EDUCATION" envDefault:"-1"`
	WeightExperience float64 `env:"WEIGHT_EXPERIENCE" envDefault:"-1"`
	WeightSkills     float64 `env:"WEIGHT_SKILLS" envDefault:"-1"`
	WeightAISignal   float64 `env:"WEIGHT_AI_SIGNAL" envDefault:"-1"`

	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	MaxBodyBytes          int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"resume-rater"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unusable field values. Load calls it; callers that mutate
// the config afterwards (flag overrides) should call it again.
func (c Config) Validate() error {
	switch strings.ToLower(c.EmbeddingsBackend) {
	case "onnx", "api", "bow":
	default:
		return fmt.Errorf("op=config.Validate: %w: EMBEDDINGS_BACKEND must be onnx, api, or bow (got %q)",
			domain.ErrInvalidArgument, c.EmbeddingsBackend)
	}
	return nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// Weights resolves the effective component weights: defaults, then the YAML
// file if configured, then any WEIGHT_* overrides. Negative env values mean
// unset. The result is renormalized so the four weights sum to one.
func (c Config) Weights() (domain.Weights, error) {
	w := domain.DefaultWeights()

	if c.WeightsFile != "" {
		b, err := os.ReadFile(c.WeightsFile)
		if err != nil {
			return domain.Weights{}, fmt.Errorf("op=config.Weights: read %s: %w", c.WeightsFile, err)
		}
		var fromFile domain.Weights
		if err := yaml.Unmarshal(b, &fromFile); err != nil {
			return domain.Weights{}, fmt.Errorf("op=config.Weights: parse %s: %w", c.WeightsFile, err)
		}
		if fromFile.Education > 0 {
			w.Education = fromFile.Education
		}
		if fromFile.Experience > 0 {
			w.Experience = fromFile.Experience
		}
		if fromFile.Skills > 0 {
			w.Skills = fromFile.Skills
		}
		if fromFile.AISignal > 0 {
			w.AISignal = fromFile.AISignal
		}
	}

	if c.WeightEducation >= 0 {
		w.Education = c.WeightEducation
	}
	if c.WeightExperience >= 0 {
		w.Experience = c.WeightExperience
	}
	if c.WeightSkills >= 0 {
		w.Skills = c.WeightSkills
	}
	if c.WeightAISignal >= 0 {
		w.AISignal = c.WeightAISignal
	}

	sum := w.Education + w.Experience + w.Skills + w.AISignal
	if sum <= 0 {
		return domain.Weights{}, fmt.Errorf("op=config.Weights: %w: weights sum to %.3f", domain.ErrInvalidArgument, sum)
	}
	w.Education /= sum
	w.Experience /= sum
	w.Skills /= sum
	w.AISignal /= sum
	return w, nil
}
