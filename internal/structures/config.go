package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// UpstreamConfig controls calls made to portal backends. A zero Timeout
// leaves requests unbounded.
type UpstreamConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	UserHeader string        `yaml:"userHeader"`
}

// WidgetApiConfig locates widget entity files. EntrySuffix is a pointer so
// that an explicit empty suffix can be told apart from a missing one.
type WidgetApiConfig struct {
	Entry       string  `yaml:"entry" validate:"required"`
	EntrySuffix *string `yaml:"entrySuffix"`
}

type MessagesConfig struct {
	Url                  string `yaml:"url"`
	MaxConcurrentFetches int    `yaml:"maxConcurrentFetches"`
}

type PortalConfig struct {
	UserHeader   string `yaml:"userHeader"`
	GroupsHeader string `yaml:"groupsHeader"`
	GroupsSource string `yaml:"groupsSource" validate:"in:header,url"`
	GroupsUrl    string `yaml:"groupsUrl"`
}

type KVConfig struct {
	Driver string `yaml:"driver" validate:"in:none,file,redis,firestore"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	Namespace string        `yaml:"namespace"`
	Timeout   time.Duration `yaml:"timeout"`
}

type FirestoreConfig struct {
	ProjectId  string `yaml:"projectId"`
	Collection string `yaml:"collection"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server          `yaml:"webServer"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Upstream    UpstreamConfig  `yaml:"upstream"`
	WidgetApi   WidgetApiConfig `yaml:"widgetApi"`
	Messages    MessagesConfig  `yaml:"messages"`
	Portal      PortalConfig    `yaml:"portal"`
	KV          KVConfig        `yaml:"kv"`
	Persistence Persistence     `yaml:"persistence"`
	Redis       RedisConfig     `yaml:"redis"`
	Firestore   FirestoreConfig `yaml:"firestore"`
}
