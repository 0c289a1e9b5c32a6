package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emoticon-hub/pkg/cache"
	"emoticon-hub/pkg/config"
	"emoticon-hub/pkg/database"
	"emoticon-hub/pkg/logger"
	"emoticon-hub/pkg/queue"
	"emoticon-hub/services/pack/internal/entity"
	"emoticon-hub/services/pack/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

// reviewQueueKey holds pack IDs awaiting a moderator, in arrival order.
const reviewQueueKey = "examine:review_queue"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		panic(err)
	}

	packRepo := persistent.NewPackRepository(db)

	err = queueClient.ConsumeExamineTasks(func(task map[string]interface{}) error {
		packID, _ := task["pack_id"].(string)
		if packID == "" {
			log.Error("[EXAMINE WORKER] Task without pack_id: %+v", task)
			return nil
		}

		pack, err := packRepo.GetByID(packID)
		if err != nil {
			if errors.Is(err, entity.ErrPackNotFound) {
				log.Warn("[EXAMINE WORKER] Pack %s no longer exists, dropping task", packID)
				return nil
			}
			return err
		}

		if pack.ExamineState != entity.ExaminePending {
			log.Info("[EXAMINE WORKER] Pack %s already decided (%s), skipping", packID, pack.ExamineState)
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.RPush(ctx, reviewQueueKey, packID).Err(); err != nil {
			return err
		}

		log.Info("[EXAMINE WORKER] Queued pack %s (%q) for review", packID, pack.Title)
		return nil
	})
	if err != nil {
		log.Error("Failed to start examine consumer: %v", err)
		panic(err)
	}

	go reportBacklog(queueClient, redisClient, log)

	log.Info("Examine worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down examine worker...")

	queueClient.Close()
	redisClient.Close()

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}

	log.Info("Examine worker exited")
}

func reportBacklog(queueClient *queue.Client, redisClient *redis.Client, log *logger.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		pending, err := queueClient.GetQueueLength()
		if err != nil {
			log.Warn("[EXAMINE WORKER] Failed to inspect queue: %v", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		awaiting, err := redisClient.LLen(ctx, reviewQueueKey).Result()
		cancel()
		if err != nil {
			log.Warn("[EXAMINE WORKER] Failed to read review queue: %v", err)
			continue
		}

		log.Info("[EXAMINE WORKER] Backlog: %d undelivered, %d awaiting review", pending, awaiting)
	}
}
