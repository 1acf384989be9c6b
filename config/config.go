package config

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
)

type Config struct {
	MinIOBucket string        `yaml:"minio_bucket"`
	App         App           `yaml:"app"`
	DB          *sql.DB       `yaml:"db"`
	Queue       *RabbitMQ     `yaml:"rabbitmq"`
	Storage     *minio.Client `yaml:"storage"`
	Server      Server        `yaml:"server"`
	Media       Media         `yaml:"media"`
	Whisper     Whisper       `yaml:"whisper"`
	CloudSTT    CloudSTT      `yaml:"cloud_stt"`
	Caption     Caption       `yaml:"caption"`
	YouTube     YouTube       `yaml:"youtube"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

// Media holds file handling limits and working directories.
type Media struct {
	TempDir      string `yaml:"temp_dir"`
	ClipDir      string `yaml:"clip_dir"`
	RecordsPath  string `yaml:"records_path"`
	MaxSizeBytes int64  `yaml:"max_size_bytes"`
}

// Whisper configures the local speech-to-text CLI (primary tier).
type Whisper struct {
	Binary   string `yaml:"binary"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

// CloudSTT configures the network speech-recognition API (secondary tier).
type CloudSTT struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

type Caption struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	MaxTags int    `yaml:"max_tags"`
}

type YouTube struct {
	ClientSecrets  string        `yaml:"client_secrets"`
	AuthTimeout    time.Duration `yaml:"auth_timeout"`
	DefaultPrivacy string        `yaml:"default_privacy"`
}

func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetDefault("media.temp_dir", "temp")
	viper.SetDefault("media.clip_dir", "clips")
	viper.SetDefault("media.records_path", "data/upload_records.json")
	viper.SetDefault("media.max_size_bytes", 512<<20)
	viper.SetDefault("whisper.binary", "whisper-cli")
	viper.SetDefault("caption.model", "gpt-4o-mini")
	viper.SetDefault("caption.max_tags", 10)
	viper.SetDefault("youtube.client_secrets", "client_secrets.json")
	viper.SetDefault("youtube.auth_timeout", "3m")
	viper.SetDefault("youtube.default_privacy", "public")
	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if dsn := viper.GetString("postgresql_host"); dsn != "" {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
	}

	var rabbitmq *RabbitMQ
	if viper.GetString("rabbitmq_host") != "" {
		rabbitmq = &RabbitMQ{
			Host:         viper.GetString("rabbitmq_host"),
			Port:         viper.GetInt("rabbitmq_port"),
			User:         viper.GetString("rabbitmq_user"),
			Pass:         viper.GetString("rabbitmq_pass"),
			ExchangeName: viper.GetString("rabbitmq_exchange"),
			Kind:         viper.GetString("rabbitmq_kind"),
		}
	}

	var minioClient *minio.Client
	if viper.GetString("minio.url") != "" {
		minioClient, err = minio.New(viper.GetString("minio.url"), &minio.Options{
			Creds:  credentials.NewStaticV4(viper.GetString("minio.access_id"), viper.GetString("minio.secret_access_key"), ""),
			Secure: false,
		})
		if err != nil {
			return nil, err
		}
	}

	return &Config{
		MinIOBucket: viper.GetString("minio.bucket"),
		App: App{
			Environment: viper.GetString("app.environment"),
			Host:        viper.GetString("app.host"),
			Protocol:    viper.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort: viper.GetString("server.port"),
		},
		Media: Media{
			TempDir:      viper.GetString("media.temp_dir"),
			ClipDir:      viper.GetString("media.clip_dir"),
			RecordsPath:  viper.GetString("media.records_path"),
			MaxSizeBytes: viper.GetInt64("media.max_size_bytes"),
		},
		Whisper: Whisper{
			Binary:   viper.GetString("whisper.binary"),
			Model:    viper.GetString("whisper.model"),
			Language: viper.GetString("whisper.language"),
		},
		CloudSTT: CloudSTT{
			URL:    viper.GetString("cloud_stt.url"),
			APIKey: viper.GetString("cloud_stt.api_key"),
		},
		Caption: Caption{
			APIKey:  viper.GetString("caption.api_key"),
			Model:   viper.GetString("caption.model"),
			MaxTags: viper.GetInt("caption.max_tags"),
		},
		YouTube: YouTube{
			ClientSecrets:  viper.GetString("youtube.client_secrets"),
			AuthTimeout:    viper.GetDuration("youtube.auth_timeout"),
			DefaultPrivacy: viper.GetString("youtube.default_privacy"),
		},
		DB:      db,
		Queue:   rabbitmq,
		Storage: minioClient,
	}, nil
}
