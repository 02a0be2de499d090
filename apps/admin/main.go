package main

import (
	"log"
	"os"

	"github.com/studato/studato/core"
	"github.com/studato/studato/core/reward"
	"github.com/studato/studato/services/email"
	"github.com/studato/studato/services/logger"
	"github.com/studato/studato/storage/database"
	"github.com/studato/studato/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(db.Ping())

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logsvc.NewRollbarLogger(logger, core.Conf))
	}

	// start CLI
	cli := commandLine{
		db:      db.DB,
		rewards: reward.NewService(sqlxrepos.NewPointsRepository(db)),
		tasks:   sqlxrepos.NewTaskRepository(db),
		cards:   sqlxrepos.NewCardRepository(db),
		mail:    mailSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
