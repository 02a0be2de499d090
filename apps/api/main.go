package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/studato/studato/apps/api/echo"
	"github.com/studato/studato/core"
	"github.com/studato/studato/core/review"
	"github.com/studato/studato/core/reward"
	"github.com/studato/studato/core/study"
	"github.com/studato/studato/services/logger"
	"github.com/studato/studato/storage/database"
	"github.com/studato/studato/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	appLogger := logsvc.NewRollbarLogger(std, core.Conf)

	// set up DB
	db, err := database.Open(core.Conf)
	if err != nil {
		appLogger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()
	if err = db.Ping(); err != nil {
		appLogger.Fatal("pinging database", err)
	}

	// set up services
	clock := core.NewClock()
	rewardSvc := reward.NewService(sqlxrepos.NewPointsRepository(db))
	taskRepo := sqlxrepos.NewTaskRepository(db)
	engine := study.NewEngine(clock, taskRepo, rewardSvc, appLogger)
	studySvc := study.NewService(taskRepo, sqlxrepos.NewMethodRepository(db), engine, rewardSvc, clock)
	reviewSvc := review.NewService(sqlxrepos.NewCardRepository(db), rewardSvc, clock, appLogger)

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		core.Conf.Server.Addr,
		shutdown,
		&echoapi.Deps{
			StudySvc:  studySvc,
			ReviewSvc: reviewSvc,
			RewardSvc: rewardSvc,
			Logger:    appLogger,
		},
	)
	go app.Start()

	<-shutdown
	appLogger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		appLogger.Error("graceful shutdown failed", err)
	}
}
