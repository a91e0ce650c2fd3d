// Package config 服务配置
//
// 加载顺序 (后者覆盖前者)：默认值 → .env 文件 → YAML 配置文件 → 环境变量。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 服务配置
type Config struct {
	HTTPAddr  string `yaml:"http_addr"`
	MapFile   string `yaml:"map_file"`   // 二进制地图快照
	PathsFile string `yaml:"paths_file"` // 二进制路径快照
	SeedFile  string `yaml:"seed_file"`  // 文本格式的初始地图
	JWTSecret string `yaml:"jwt_secret"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	DB    DBConfig    `yaml:"db"`
	Redis RedisConfig `yaml:"redis"`
}

// DBConfig PostgreSQL 连接配置
type DBConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RedisConfig 路径缓存配置，Addr 为空表示不启用
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		HTTPAddr:  ":8080",
		MapFile:   "data/campus_map.bin",
		PathsFile: "data/saved_paths.bin",
		SeedFile:  "data/campus_map.txt",
		JWTSecret: "campus-map-secret-key",
		LogLevel:  "info",
		LogFormat: "text",
		DB: DBConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "campus",
			Password: "campus",
			Name:     "campusmap",
		},
		Redis: RedisConfig{
			TTL: 10 * time.Minute,
		},
	}
}

// Load 加载配置；path 为空时读取 CAMPUS_CONFIG 指定的文件，仍为空则跳过 YAML
func Load(path string) (*Config, error) {
	// .env 不存在不算错误
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("CAMPUS_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.HTTPAddr = getEnvOrDefault("HTTP_ADDR", c.HTTPAddr)
	c.MapFile = getEnvOrDefault("MAP_FILE", c.MapFile)
	c.PathsFile = getEnvOrDefault("PATHS_FILE", c.PathsFile)
	c.SeedFile = getEnvOrDefault("SEED_FILE", c.SeedFile)
	c.JWTSecret = getEnvOrDefault("JWT_SECRET", c.JWTSecret)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)

	c.DB.Host = getEnvOrDefault("DB_HOST", c.DB.Host)
	c.DB.Port = getEnvOrDefault("DB_PORT", c.DB.Port)
	c.DB.User = getEnvOrDefault("DB_USER", c.DB.User)
	c.DB.Password = getEnvOrDefault("DB_PASSWORD", c.DB.Password)
	c.DB.Name = getEnvOrDefault("DB_NAME", c.DB.Name)
	if v := os.Getenv("DB_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DB_ENABLED=%q: %w", v, err)
		}
		c.DB.Enabled = b
	}

	c.Redis.Addr = getEnvOrDefault("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnvOrDefault("REDIS_PASS", c.Redis.Password)
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("REDIS_DB=%q 无效", v)
		}
		c.Redis.DB = n
	}
	if v := os.Getenv("REDIS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REDIS_TTL=%q: %w", v, err)
		}
		c.Redis.TTL = d
	}
	return c.Validate()
}

// Validate 检查配置是否可用
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR 不能为空")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET 不能为空")
	}
	if c.Redis.TTL < 0 {
		return errors.New("REDIS_TTL 不能为负数")
	}
	return nil
}

// DSN PostgreSQL 连接串
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Shanghai",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port,
	)
}

// getEnvOrDefault 获取环境变量，如果不存在则返回默认值
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
