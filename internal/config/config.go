package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Config *TrackerConfig

// TrackerConfig is a struct that contains configuration values for the tracker client and the reference server.
type TrackerConfig struct {
	// APIBaseURL is the base URL of the courses REST API.
	APIBaseURL string
	// RequestTimeout bounds every call made by the remote resource client.
	RequestTimeout time.Duration
	// PollInterval is how often the calendar view re-fetches the course list.
	PollInterval time.Duration
	// SignalKey is the name of the key/value slot used as the cross-view change signal.
	SignalKey string
	// SignalBackend selects the slot implementation: "memory", "redis" or "firestore".
	SignalBackend string
	// RedisAddr is the address of the Redis server backing the change signal.
	RedisAddr string
	// FirebaseCredentialsFile is the service account file used for Firestore.
	FirebaseCredentialsFile string
	// RepositoryBackend selects the reference server's storage: "memory" or "firestore".
	RepositoryBackend string
	// AllowedOrigins is a list of URLs that the reference server will accept requests from.
	AllowedOrigins []string
	// Port is the port the reference server should run on.
	Port int
	// RollbarToken enables the Rollbar observability sink when set.
	RollbarToken string
	// Env is the deployment environment name.
	Env string
}

func DefaultConfig() *TrackerConfig {
	return &TrackerConfig{
		APIBaseURL:              "http://localhost:8080",
		RequestTimeout:          10 * time.Second,
		PollInterval:            2 * time.Second,
		SignalKey:               "assignment_updated",
		SignalBackend:           "memory",
		RedisAddr:               "localhost:6379",
		FirebaseCredentialsFile: "firebase-config.json",
		RepositoryBackend:       "memory",
		AllowedOrigins:          []string{"http://localhost:3000"},
		Port:                    8080,
		Env:                     "DEV",
	}
}

// Load builds a configuration from the defaults, an optional .env file, and STUDYTRACK_* environment variables.
func Load(dotEnvPath string) (*TrackerConfig, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	def := DefaultConfig()
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("apiBaseURL", def.APIBaseURL)
	v.SetDefault("requestTimeout", def.RequestTimeout)
	v.SetDefault("pollInterval", def.PollInterval)
	v.SetDefault("signalKey", def.SignalKey)
	v.SetDefault("signalBackend", def.SignalBackend)
	v.SetDefault("redisAddr", def.RedisAddr)
	v.SetDefault("firebaseCredentialsFile", def.FirebaseCredentialsFile)
	v.SetDefault("repositoryBackend", def.RepositoryBackend)
	v.SetDefault("allowedOrigins", def.AllowedOrigins)
	v.SetDefault("port", def.Port)
	v.SetDefault("rollbarToken", def.RollbarToken)
	v.SetDefault("env", def.Env)

	v.SetEnvPrefix("STUDYTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &TrackerConfig{
		APIBaseURL:              strings.TrimRight(v.GetString("apiBaseURL"), "/"),
		RequestTimeout:          v.GetDuration("requestTimeout"),
		PollInterval:            v.GetDuration("pollInterval"),
		SignalKey:               v.GetString("signalKey"),
		SignalBackend:           strings.ToLower(v.GetString("signalBackend")),
		RedisAddr:               v.GetString("redisAddr"),
		FirebaseCredentialsFile: v.GetString("firebaseCredentialsFile"),
		RepositoryBackend:       strings.ToLower(v.GetString("repositoryBackend")),
		AllowedOrigins:          v.GetStringSlice("allowedOrigins"),
		Port:                    v.GetInt("port"),
		RollbarToken:            v.GetString("rollbarToken"),
		Env:                     strings.ToUpper(v.GetString("env")),
	}
	if conf.PollInterval <= 0 {
		conf.PollInterval = def.PollInterval
	}
	return conf, nil
}

func init() {
	conf, err := Load(".env")
	if err != nil {
		log.Printf("⚠️ Could not load configuration (%v). Using the default configuration.\n", err)
		conf = DefaultConfig()
	}
	Config = conf
}
