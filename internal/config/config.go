package config

import "time"

type Config struct {
	Log        Log        `yaml:"log"`
	Portal     Portal     `yaml:"portal"`
	Session    Session    `yaml:"session"`
	Token      Token      `yaml:"token"`
	AuthAPI    AuthAPI    `yaml:"authApi"`
	Firebase   Firebase   `yaml:"firebase"`
	Repository Repository `yaml:"repository"`
	Blob       Blob       `yaml:"blob"`
	Mail       Mail       `yaml:"mail"`
}

type Log struct {
	Development bool `yaml:"development"`
}

type Portal struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// MaxUploadBytes caps multipart uploads.
	MaxUploadBytes int64         `yaml:"maxUploadBytes"`
	FileCacheTTL   time.Duration `yaml:"fileCacheTTL"`
}

type Session struct {
	Lifetime   time.Duration `yaml:"lifetime"`
	CookieName string        `yaml:"cookieName"`
	Secure     bool          `yaml:"secure"`
	RedisURL   string        `yaml:"redisURL"`
}

type Token struct {
	// Secret is the HMAC key of the auth API. Empty means tokens are
	// decoded without signature verification.
	Secret string `yaml:"secret"`
}

type AuthAPI struct {
	BaseURL   string        `yaml:"baseURL"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rateLimit"`
	Burst     int           `yaml:"burst"`
}

type Firebase struct {
	ProjectID       string `yaml:"projectID"`
	CredentialsFile string `yaml:"credentialsFile"`
	Bucket          string `yaml:"bucket"`
}

type Repository struct {
	// Driver is one of firestore, sql, json.
	Driver  string `yaml:"driver"`
	Dialect string `yaml:"dialect"`
	DSN     string `yaml:"dsn"`
	Path    string `yaml:"path"`
}

type Blob struct {
	// Driver is one of gcs, local.
	Driver    string        `yaml:"driver"`
	Dir       string        `yaml:"dir"`
	URLExpiry time.Duration `yaml:"urlExpiry"`
}

type Mail struct {
	SendGridAPIKey string `yaml:"sendgridAPIKey"`
	FromName       string `yaml:"fromName"`
	FromAddress    string `yaml:"fromAddress"`
	OfficeAddress  string `yaml:"officeAddress"`
}

// Path is the location of the YAML config file.
type Path string

func Default() *Config {
	return &Config{
		Portal: Portal{
			Host:           "localhost",
			Port:           8123,
			MaxUploadBytes: 32 << 20,
			FileCacheTTL:   time.Minute,
		},
		Session: Session{
			Lifetime:   24 * time.Hour,
			CookieName: "pelicanpoint_session",
		},
		AuthAPI: AuthAPI{
			BaseURL:   "http://localhost:8124",
			Timeout:   10 * time.Second,
			RateLimit: 5,
			Burst:     10,
		},
		Repository: Repository{
			Driver: "json",
			Path:   "./data/portal.json",
		},
		Blob: Blob{
			Driver:    "local",
			Dir:       "./data/files",
			URLExpiry: 15 * time.Minute,
		},
		Mail: Mail{
			FromName:      "Pelican Point East",
			FromAddress:   "noreply@pelicanpointeast.org",
			OfficeAddress: "office@pelicanpointeast.org",
		},
	}
}

func New(path Path) (*Config, error) {
	cfg := Default()
	if err := loadYAML(string(path), cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
