package main

import (
	"context"
	"flag"
	"fmt"

	"royal-odds/internal/api"
	"royal-odds/internal/config"
	"royal-odds/internal/middleware"
	"royal-odds/internal/repo"
	"royal-odds/internal/service"
	"royal-odds/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Load Config
	if err := config.LoadConfig(configPath); err != nil {
		panic(err)
	}
	conf := config.GlobalConfig

	// 2. Init Logger
	logger.InitLogger(conf.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("Starting server...", zap.String("mode", conf.Server.Mode))

	// 3. Init DB & Redis
	if conf.Database.Driver == "" {
		logger.Log.Fatal("database.driver must be set to serve odds")
	}
	repo.InitDB()
	repo.InitRedis()

	// 3.5 Init Services
	services := service.NewContainer(repo.DB, repo.RDB, conf.Redis.TTL())
	if err := services.Start(ctx); err != nil {
		logger.Log.Fatal("failed to start services", zap.Error(err))
	}

	// 4. Init Router
	if conf.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	api.RegisterRoutes(r, services)

	// 5. Start Server
	addr := fmt.Sprintf(":%s", conf.Server.Port)
	logger.Log.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
