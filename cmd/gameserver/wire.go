//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/app"
	"github.com/cory-johannsen/delve/internal/config"
)

// initializeServer assembles the gRPC turn server from configuration.
func initializeServer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app.Server, func(), error) {
	wire.Build(app.ServerSet)
	return nil, nil, nil
}
