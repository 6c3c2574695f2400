package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the portal's runtime configuration.
// Values come from defaults, an optional config/.env.<env> file and the environment.
type Config struct {
	AppName         string
	SiteName        string
	SiteDescription string
	Env             string // DEV (default), TEST, QA, PROD
	Debug           bool
	TestMode        bool
	Build           string
	WorkDir         string

	// APIBaseURL is the upstream platform REST API, e.g. http://localhost:5000/api/v1
	APIBaseURL string
	// StatePath is the file backing the persisted client state (token, user, settings).
	StatePath string
	PageSize  int

	RollbarToken string

	Server struct {
		Host            string
		ShutdownTimeout time.Duration
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "LLMHomework Portal")
	v.SetDefault("siteName", "LLM Homework")
	v.SetDefault("siteDescription", "Course, question & experiment management platform")
	v.SetDefault("build", "dev")
	v.SetDefault("apiBaseUrl", "http://localhost:5000/api/v1")
	v.SetDefault("statePath", filepath.Join(os.TempDir(), "llmhomework-portal.json"))
	v.SetDefault("pageSize", 10)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("serverHost", "0.0.0.0:8080")
	v.SetDefault("shutdownTimeout", 5*time.Second)

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd: %v", err)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:         v.GetString("appName"),
		SiteName:        v.GetString("siteName"),
		SiteDescription: v.GetString("siteDescription"),
		Env:             env,
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		Build:           v.GetString("build"),
		WorkDir:         wd,
		APIBaseURL:      strings.TrimRight(v.GetString("apiBaseUrl"), "/"),
		StatePath:       v.GetString("statePath"),
		PageSize:        v.GetInt("pageSize"),
		RollbarToken:    v.GetString("rollbarToken"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdownTimeout")
	return conf
}
