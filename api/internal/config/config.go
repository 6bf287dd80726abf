package config

import (
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gorm.io/gorm"
)

type Config struct {
	DB *gorm.DB `ignored:"true"`

	ProdEnv bool `envconfig:"PROD_ENV"`

	// monitor loop
	PollingIntervalSeconds    int `envconfig:"POLLING_INTERVAL_SECONDS" default:"10"`
	MaxPaymentLifetimeSeconds int `envconfig:"MAX_PAYMENT_LIFETIME_SECONDS" default:"86400"`

	TronGrid struct {
		BaseUrl string `envconfig:"TRONGRID_API_BASE_URL" default:"https://api.trongrid.io/v1"`
		ApiKey  string `envconfig:"TRONGRID_API_KEY"`
	}

	UsdtContract string `envconfig:"USDT_TRC20_CONTRACT_ADDRESS" default:"TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"`

	Postgres struct {
		Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
		User     string `envconfig:"POSTGRES_USER" default:"postgres"`
		Password string `envconfig:"POSTGRES_PASSWORD"`
		DbName   string `envconfig:"POSTGRES_DB" default:"tron_payments"`
		Port     uint16 `envconfig:"POSTGRES_PORT" default:"5432"`
		SslMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	}

	Nats struct {
		// empty disables the event mirror
		Servers string `envconfig:"NATS_SERVERS"`
	}

	Api struct {
		Ipv4  string `envconfig:"API_LISTEN" default:"0.0.0.0:5000"`
		Proto string `envconfig:"API_PROTO" default:"http"`
	}

	// optional socks5 proxies for webhook delivery, one per line
	ProxyPath string   `envconfig:"WEBHOOK_PROXY_PATH"`
	ProxyList []string `ignored:"true"`
}

func ReadConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(err)
	}

	if config.ProxyPath != "" {
		config.ProxyList = GetProxyList(config.ProxyPath)
	}

	return &config
}

func (c *Config) PollingInterval() time.Duration {
	return time.Duration(c.PollingIntervalSeconds) * time.Second
}

func (c *Config) MaxPaymentLifetime() time.Duration {
	return time.Duration(c.MaxPaymentLifetimeSeconds) * time.Second
}

func GetProxyList(path string) []string {
	proxyList, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var proxies []string
	for _, line := range strings.Split(string(proxyList), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies
}
