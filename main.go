package main

import (
	"os"
	"time"

	"github.com/wastewise/wastewise/config"
	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/routes"
	"github.com/wastewise/wastewise/services"
	"github.com/wastewise/wastewise/utils"
	"github.com/wastewise/wastewise/worker"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.Sugar.Fatalf("upload directory: %v", err)
	}

	db := config.InitDatabase(
		&models.Company{},
		&models.User{},
		&models.CollectionArea{},
		&models.Bin{},
		&models.WastePhoto{},
		&models.Achievement{},
		&models.EmployeeAchievement{},
		&models.DailyChallenge{},
		&models.DailyChallengeProgress{},
		&models.SeasonalEvent{},
	)

	gamification := services.NewGamificationService(db, services.GamificationConfigFromApp(cfg))
	challenges := services.NewChallengeService(db, gamification)
	gamification.SetChallengeTracker(challenges)
	achievements := services.NewAchievementService(db)
	leaderboard := services.NewLeaderboardService(db, cfg.LeaderboardSize, time.Duration(cfg.LeaderboardCacheSec)*time.Second)

	queue, err := worker.NewQueue(worker.QueueConfigFromApp(cfg))
	if err != nil {
		utils.Sugar.Fatalf("queue connect: %v", err)
	}
	defer queue.Close()

	vision := worker.NewVisionClient(cfg)
	classifier := worker.NewClassifier(
		db, vision, gamification, achievements, leaderboard,
		cfg.UploadDir, cfg.PhotoRewardPoints, cfg.PhotoRewardExp,
	)

	go func() {
		if err := queue.Consume(classifier.HandleJob); err != nil {
			utils.Sugar.Errorf("classification consumer stopped: %v", err)
		}
	}()

	router := routes.SetupRouter(db, routes.Services{
		Gamification: gamification,
		Challenges:   challenges,
		Leaderboard:  leaderboard,
		Queue:        queue,
	})

	utils.Sugar.Infof("listening on :%s", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, router); err != nil {
		utils.Sugar.Fatalf("server: %v", err)
	}
}
