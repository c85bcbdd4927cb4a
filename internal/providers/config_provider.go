package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"portal/internal/structures"
	"strings"
	"time"
)

const (
	defaultUserHeader   = "X-Portal-User"
	defaultGroupsHeader = "X-Portal-Groups"
	defaultEntrySuffix  = ".json"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("portal.userHeader", defaultUserHeader)
	viper.SetDefault("portal.groupsHeader", defaultGroupsHeader)
	viper.SetDefault("portal.groupsSource", "header")
	viper.SetDefault("kv.driver", "none")
	viper.SetDefault("cache.ttl", 30*time.Second)
	viper.SetDefault("messages.maxConcurrentFetches", 8)
	viper.SetDefault("redis.namespace", "portal")
	viper.SetDefault("redis.timeout", 2*time.Second)
	viper.SetDefault("firestore.collection", "portal-kv")

	viper.BindEnv("logger.level", "PORTAL_LOG_LEVEL")
	viper.BindEnv("kv.driver", "PORTAL_KV_DRIVER")
	viper.BindEnv("redis.addr", "PORTAL_REDIS_ADDR")
	viper.BindEnv("cache.enabled", "PORTAL_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PORTAL_CACHE_SIZE")
	viper.BindEnv("upstream.timeout", "PORTAL_UPSTREAM_TIMEOUT")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if conf.WidgetApi.EntrySuffix == nil {
		suffix := defaultEntrySuffix
		conf.WidgetApi.EntrySuffix = &suffix
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PortalWidgetDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
