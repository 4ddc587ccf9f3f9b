package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"drone-delivery-service/internal/services"
	"github.com/joho/godotenv"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid int %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func GetFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: invalid float %s=%q, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func GetBool(key string, fallback bool) bool {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: invalid bool %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid duration %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

// Config is the process configuration shared by the commands.
type Config struct {
	Port        string
	DBDriver    string // sqlite or postgres
	DBPath      string
	DatabaseURL string
	RedisURL    string
	SeedPath    string
	ScenarioDir string

	Generations       int
	PopulationSize    int
	MutationRate      float64
	TopK              int
	PriorityWeight    float64
	EnergyPerDistance float64
	PenaltyFactor     float64
	Parallelism       int
	PlanTimeBudget    time.Duration

	PlanRateLimit float64 // plans per second
	PlanRateBurst int

	TracingEnabled     bool
	TracingExporter    string
	TracingServiceName string
}

// LoadDotEnv reads .env when present. A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:        Get("PORT", "8080"),
		DBDriver:    strings.ToLower(Get("DB_DRIVER", "sqlite")),
		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: Get("DATABASE_URL", ""),
		RedisURL:    Get("REDIS_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/demo.yaml"),
		ScenarioDir: Get("SCENARIO_DIR", ""),

		Generations:       GetInt("GA_GENERATIONS", 30),
		PopulationSize:    GetInt("GA_POPULATION_SIZE", 10),
		MutationRate:      GetFloat("GA_MUTATION_RATE", 0.2),
		TopK:              GetInt("GA_TOP_K", 5),
		PriorityWeight:    GetFloat("GA_PRIORITY_WEIGHT", 100),
		EnergyPerDistance: GetFloat("ENERGY_PER_DISTANCE", 1),
		PenaltyFactor:     GetFloat("GA_PENALTY_FACTOR", 1),
		Parallelism:       GetInt("GA_PARALLELISM", 0),
		PlanTimeBudget:    GetDuration("PLAN_TIME_BUDGET", 30*time.Second),

		PlanRateLimit: GetFloat("PLAN_RATE_LIMIT", 2),
		PlanRateBurst: GetInt("PLAN_RATE_BURST", 4),

		TracingEnabled:     GetBool("TRACING_ENABLED", false),
		TracingExporter:    Get("TRACING_EXPORTER", "stdout"),
		TracingServiceName: Get("TRACING_SERVICE_NAME", "drone-delivery-service"),
	}
}

// OptimizerConfig maps the GA_* settings onto the optimizer configuration.
func (c Config) OptimizerConfig() services.Config {
	return services.Config{
		Generations:    c.Generations,
		PopulationSize: c.PopulationSize,
		MutationRate:   c.MutationRate,
		TopK:           c.TopK,
		PriorityWeight: c.PriorityWeight,
		PenaltyFactor:  c.PenaltyFactor,
		Parallelism:    c.Parallelism,
		TimeBudget:     c.PlanTimeBudget,
	}
}
