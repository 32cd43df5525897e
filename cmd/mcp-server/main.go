package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mirotools/miro-mcp/internal/config"
	"github.com/mirotools/miro-mcp/internal/mcp"
	"github.com/mirotools/miro-mcp/internal/miro"
)

func main() {
	var (
		serverName    = flag.String("name", "miro-mcp-server", "Server name")
		serverVersion = flag.String("version", "1.0.0", "Server version")
	)
	flag.Parse()

	// stdout carries protocol payloads, all diagnostics go to stderr.
	logConfig := zap.NewProductionConfig()
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logConfig.OutputPaths = []string{"stderr"}
	logger, err := logConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// One session per process, the client inside it is constructed on
	// the first tool call that needs it.
	session := miro.NewSession(cfg, logger)

	registry := mcp.NewRegistry()
	registry.Register(miro.NewAuthURLTool(session))
	registry.Register(miro.NewExchangeCodeTool(session))
	registry.Register(miro.NewGetBoardTool(session))
	registry.Register(miro.NewCreateShapeTool(session))
	registry.Register(miro.NewUpdateShapeTool(session))
	registry.Register(miro.NewDeleteShapeTool(session))
	registry.Register(miro.NewGroupShapesTool(session))
	registry.Register(miro.NewUngroupShapesTool(session))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	server := mcp.NewStdioServer(*serverName, *serverVersion, registry, logger)
	logger.Info("starting miro MCP server",
		zap.String("name", *serverName),
		zap.String("version", *serverVersion))

	if err := server.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server shutdown complete")
}
