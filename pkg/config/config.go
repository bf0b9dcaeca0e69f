package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Dataset DatasetConfig
	Model   ModelConfig
	Input   InputConfig
	Chart   ChartConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    int
	WriteTimeout   int
	BodyLimit      int
	Development    bool
	AllowedOrigins []string
}

type DatasetConfig struct {
	Path    string
	Sheet   string
	Columns ColumnsConfig
}

// ColumnsConfig holds the header names of the training workbook.
type ColumnsConfig struct {
	Name         string
	TrailerViews string
	LagDay       string
	Instagram    string
	Facebook     string
	TikTok       string
	GlobalSales  string
}

type ModelConfig struct {
	ReferenceDate string
	CurvePoints   int
}

// InputConfig holds the values used when a prediction request omits a field.
type InputConfig struct {
	ReleaseDate  string
	TrailerViews int64
	Instagram    int64
	Facebook     int64
	TikTok       int64
}

type ChartConfig struct {
	Width            int
	Height           int
	RendersPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/salesforecast")

	return load(v)
}

// LoadFile reads the configuration from an explicit path instead of the
// search directories.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("SALESFORECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Model.CurvePoints < 2 {
		return nil, fmt.Errorf("model.curvePoints must be at least 2, got %d", config.Model.CurvePoints)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.bodyLimit", 1048576)
	v.SetDefault("server.development", false)
	v.SetDefault("server.allowedOrigins", []string{})

	v.SetDefault("dataset.path", "./video_game_data.xlsx")
	v.SetDefault("dataset.sheet", "")
	v.SetDefault("dataset.columns.name", "Name")
	v.SetDefault("dataset.columns.trailerViews", "Total vues trailer")
	v.SetDefault("dataset.columns.lagDay", "lag_day")
	v.SetDefault("dataset.columns.instagram", "Instagram")
	v.SetDefault("dataset.columns.facebook", "Facebook")
	v.SetDefault("dataset.columns.tiktok", "Tiktok")
	v.SetDefault("dataset.columns.globalSales", "global_sales")

	v.SetDefault("model.referenceDate", "2025-02-12")
	v.SetDefault("model.curvePoints", 100)

	v.SetDefault("input.releaseDate", "2025-12-31")
	v.SetDefault("input.trailerViews", 100000)
	v.SetDefault("input.instagram", 50000)
	v.SetDefault("input.facebook", 75000)
	v.SetDefault("input.tiktok", 25000)

	v.SetDefault("chart.width", 800)
	v.SetDefault("chart.height", 450)
	v.SetDefault("chart.rendersPerMinute", 60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stdout")
}
