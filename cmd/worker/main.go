// The worker binary consumes the file and user job queues. It shares
// the API's config, database and Redis wiring but runs as its own
// process so a stalled job never touches request latency.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"filebox/files-api/config"
	"filebox/files-api/db"
	"filebox/files-api/service"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	err := config.Setup()
	if err != nil {
		panic(err)
	}

	config.SetupLogger()

	gormDB, err := db.New()
	if err != nil {
		panic(err)
	}

	files, err := service.NewFileStore(gormDB, viper.GetString("storage.folder_path"))
	if err != nil {
		panic(err)
	}

	rdb := db.NewRedis()

	fileQueue := service.NewQueue(rdb, service.FileQueue)
	userQueue := service.NewQueue(rdb, service.UserQueue)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Jobs a previous run left mid-flight go back on the queues first
	for _, q := range []*service.Queue{fileQueue, userQueue} {
		n, err := q.Reclaim(ctx)
		if err != nil {
			zap.L().Error("Failed to reclaim jobs", zap.String("queue", q.Name), zap.Error(err))
		} else if n > 0 {
			zap.L().Info("Reclaimed orphaned jobs", zap.String("queue", q.Name), zap.Int("count", n))
		}
	}

	service.NewWorkerPool(fileQueue, files.FileJobHandler()).Start(ctx)
	service.NewWorkerPool(userQueue, service.UserJobHandler(gormDB)).Start(ctx)

	zap.L().Info("Worker is running")

	<-ctx.Done()
	zap.L().Info("Worker shutting down")
}
