// Package app wires the shared dependency graph for the feature Lambdas
// and the local dev server. Each binary calls Load then New and hands the
// resulting services to its handler.
package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/kelseyhightower/envconfig"

	"lingobuddy/internal/integrations/gateway"
	"lingobuddy/internal/integrations/paramstore"
	"lingobuddy/internal/repository"
	"lingobuddy/internal/usecase"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	UsageTable     string `envconfig:"USAGE_TABLE" required:"true"`
	ParamPrefix    string `envconfig:"PARAM_PREFIX" required:"true"`
	DailyLimit     int    `envconfig:"DAILY_LIMIT" default:"50"`
	GatewayBaseURL string `envconfig:"GATEWAY_BASE_URL"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("app: load config: %w", err)
	}
	return cfg, nil
}

// New builds the feature service from cfg. It loads the default AWS config
// for DynamoDB and SSM access.
func New(ctx context.Context, cfg Config) (*usecase.Service, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: load AWS config: %w", err)
	}

	params, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return nil, err
	}

	ledger, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.UsageTable)
	if err != nil {
		return nil, err
	}

	gate, err := usecase.NewQuotaGate(ledger, cfg.DailyLimit)
	if err != nil {
		return nil, err
	}

	var opts []gateway.Option
	if cfg.GatewayBaseURL != "" {
		opts = append(opts, gateway.WithBaseURL(cfg.GatewayBaseURL))
	}
	gw, err := gateway.NewClient(params, cfg.ParamPrefix, opts...)
	if err != nil {
		return nil, err
	}

	return usecase.NewService(gw, gate, params, cfg.ParamPrefix)
}
