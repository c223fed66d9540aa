package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tunnckoCore/ethsgw"
	"github.com/tunnckoCore/ethsgw/common"
	"github.com/tunnckoCore/ethsgw/schema"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ethsgw",
		Usage: "ethscriptions api gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
			&cli.StringFlag{Name: "metric_port", Value: "", Usage: "prometheus metrics listen address, empty disables", EnvVars: []string{"METRIC_PORT"}},
			&cli.StringFlag{Name: "log_level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},
			&cli.StringFlag{Name: "sentry_dsn", Value: "", EnvVars: []string{"SENTRY_DSN"}},
			&cli.IntFlag{Name: "rate_limit", Value: 0, Usage: "requests per rate_period per origin and ip, 0 disables", EnvVars: []string{"RATE_LIMIT"}},
			&cli.StringFlag{Name: "rate_period", Value: "S", Usage: "S, M, H or D", EnvVars: []string{"RATE_PERIOD"}},

			&cli.StringFlag{Name: "testnet", Value: schema.TestnetGoerli, Usage: "testnet name", EnvVars: []string{"TESTNET"}},
			&cli.StringFlag{Name: "mainnet_api", Value: schema.DefaultMainnetApi, EnvVars: []string{"MAINNET_API"}},
			&cli.StringFlag{Name: "testnet_api", Value: schema.DefaultTestnetApi, EnvVars: []string{"TESTNET_API"}},
			&cli.StringFlag{Name: "ordex_api", Value: schema.DefaultOrdexApi, Usage: "secondary indexer url", EnvVars: []string{"ORDEX_API"}},
			&cli.StringFlag{Name: "renderer_api", Value: schema.DefaultRendererApi, Usage: "png renderer url", EnvVars: []string{"RENDERER_API"}},
			&cli.StringFlag{Name: "eth_rpc", Value: schema.DefaultEthRpc, Usage: "ethereum json-rpc used for ENS", EnvVars: []string{"ETH_RPC"}},

			&cli.StringFlag{Name: "kv", Value: schema.KVBolt, Usage: "bolt, redis, mysql, sqlite, s3, mongo or oss", EnvVars: []string{"KV"}},
			&cli.StringFlag{Name: "db_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DB_DIR"}},
			&cli.StringFlag{Name: "redis_url", Value: "redis://127.0.0.1:6379/0", EnvVars: []string{"REDIS_URL"}},
			&cli.StringFlag{Name: "mysql", Value: "root@tcp(127.0.0.1:3306)/ethsgw?charset=utf8mb4&parseTime=True&loc=Local", Usage: "mysql dsn", EnvVars: []string{"MYSQL"}},
			&cli.StringFlag{Name: "sqlite_dir", Value: "./data/sqlite", EnvVars: []string{"SQLITE_DIR"}},
			&cli.StringFlag{Name: "s3_acc_key", Value: "", Usage: "s3 access key", EnvVars: []string{"S3_ACC_KEY"}},
			&cli.StringFlag{Name: "s3_secret_key", Value: "", Usage: "s3 secret key", EnvVars: []string{"S3_SECRET_KEY"}},
			&cli.StringFlag{Name: "s3_prefix", Value: "ethsgw", Usage: "s3 bucket name prefix", EnvVars: []string{"S3_PREFIX"}},
			&cli.StringFlag{Name: "s3_region", Value: "ap-northeast-1", Usage: "s3 bucket region", EnvVars: []string{"S3_REGION"}},
			&cli.StringFlag{Name: "s3_endpoint", Value: "", Usage: "s3 compatible endpoint", EnvVars: []string{"S3_ENDPOINT"}},
			&cli.StringFlag{Name: "mongo_uri", Value: "mongodb://localhost:27017", EnvVars: []string{"MONGO_URI"}},
			&cli.StringFlag{Name: "mongo_db", Value: "ethsgw", Usage: "mongo database name", EnvVars: []string{"MONGO_DB"}},
			&cli.StringFlag{Name: "oss_acc_key", Value: "", Usage: "aliyun oss access key", EnvVars: []string{"OSS_ACC_KEY"}},
			&cli.StringFlag{Name: "oss_secret_key", Value: "", Usage: "aliyun oss secret key", EnvVars: []string{"OSS_SECRET_KEY"}},
			&cli.StringFlag{Name: "oss_prefix", Value: "ethsgw", Usage: "oss bucket name prefix", EnvVars: []string{"OSS_PREFIX"}},
			&cli.StringFlag{Name: "oss_endpoint", Value: "oss-cn-hangzhou.aliyuncs.com", Usage: "oss endpoint", EnvVars: []string{"OSS_ENDPOINT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	cfg := schema.Config{
		Port:        c.String("port"),
		MetricPort:  c.String("metric_port"),
		LogLevel:    c.String("log_level"),
		SentryDsn:   c.String("sentry_dsn"),
		RateLimit:   c.Int("rate_limit"),
		RatePeriod:  c.String("rate_period"),
		TestnetName: c.String("testnet"),
		Upstream: schema.Upstream{
			Mainnet:  c.String("mainnet_api"),
			Testnet:  c.String("testnet_api"),
			Ordex:    c.String("ordex_api"),
			Renderer: c.String("renderer_api"),
			EthRpc:   c.String("eth_rpc"),
		},
		KV:      c.String("kv"),
		BoltDir: c.String("db_dir"),
		Redis:   schema.RedisKV{Url: c.String("redis_url")},
		Sql:     schema.SqlKV{Dsn: c.String("mysql"), SqliteDir: c.String("sqlite_dir")},
		S3KV: schema.S3KV{
			AccKey:    c.String("s3_acc_key"),
			SecretKey: c.String("s3_secret_key"),
			Prefix:    c.String("s3_prefix"),
			Region:    c.String("s3_region"),
			Endpoint:  c.String("s3_endpoint"),
		},
		Mongo: schema.MongoKV{Uri: c.String("mongo_uri"), Database: c.String("mongo_db")},
		OssKV: schema.OssKV{
			AccKey:    c.String("oss_acc_key"),
			SecretKey: c.String("oss_secret_key"),
			Prefix:    c.String("oss_prefix"),
			Endpoint:  c.String("oss_endpoint"),
		},
	}
	common.SetLogLevel(cfg.LogLevel)
	if err := common.InitSentry(cfg.SentryDsn); err != nil {
		return err
	}

	s, err := ethsgw.New(cfg)
	if err != nil {
		return err
	}
	s.Run()

	<-signals
	s.Close()
	return nil
}
