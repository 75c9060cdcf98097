// Package infrastructure provides core service initialization for application
// startup. It assembles the shared dependencies (logging, database, AWS
// service façades) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	oss "github.com/aws/aws-sdk-go-v2/service/opensearchserverless"

	"github.com/JaimeStill/foundry/internal/bedrock"
	"github.com/JaimeStill/foundry/internal/config"
	"github.com/JaimeStill/foundry/internal/search"
	"github.com/JaimeStill/foundry/pkg/database"
	"github.com/JaimeStill/foundry/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules:
// lifecycle coordination, logging, database access, and the AWS service
// façades.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Search    search.System
	Agents    bedrock.System
}

// New creates an Infrastructure from the application configuration. It
// initializes all systems but does not start them; call Start separately.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("aws config load failed: %w", err)
	}

	collections := search.New(
		oss.NewFromConfig(awsCfg),
		ec2.NewFromConfig(awsCfg),
		cfg.AWS.Network(),
		logger,
	)

	agents := bedrock.New(
		bedrockagent.NewFromConfig(awsCfg),
		bedrockagentruntime.NewFromConfig(awsCfg),
		logger,
	)

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Search:    collections,
		Agents:    agents,
	}, nil
}

// Start registers the infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
