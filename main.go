package main

import (
	"context"
	"edusphere_backend/internal/app"
	"edusphere_backend/internal/config"
	"edusphere_backend/pkg/logger"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	configPath := flag.String("config", "configs", "配置文件所在目录")
	seedOnly := flag.Bool("seed", false, "为缺失的集合写入默认内容，完成后退出")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.SeedOnly = *seedOnly

	application := app.NewApp(cfg, *configPath)
	defer logger.Log.Sync()

	if cfg.SeedOnly {
		defer application.Close()
		if err := application.Seed(context.Background()); err != nil {
			logger.Log.Error("Seeding failed", zap.Error(err))
			return
		}
		log.Println("默认内容写入完成，退出程序")
		return
	}

	application.Run()
}
