package main

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/studato/studato/core/review"
	"github.com/studato/studato/core/reward"
	"github.com/studato/studato/core/study"
	"github.com/studato/studato/services/email"
	"github.com/studato/studato/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return &commandLine{
		rewards: reward.NewService(dummydb.NewPointsRepository(db)),
		tasks:   dummydb.NewTaskRepository(db),
		cards:   dummydb.NewCardRepository(db),
		mail:    emailsvc.NewConsoleServiceMock(),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "flashcard_tags", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_award(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"award"}, wantErr: errHelp},
		{name: "user but no points", args: []string{"award", "-user", "usr"}, wantErr: errHelp},
		{name: "negative points", args: []string{"award", "-user", "usr", "-points", "-5"}, wantErr: reward.ErrNegativeAward},
		{name: "award", args: []string{"award", "-user", "usr", "-points", "25"}},
		{name: "points", args: []string{"points", "-user", "usr"}},
		{name: "points: no user", args: []string{"points"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	total, err := cli.rewards.Total("usr")
	if err != nil {
		t.Fatalf("Total() failed: %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
}

func Test_commandLine_remind(t *testing.T) {
	cli := setup(t)

	now := time.Now().UTC()
	_, err := cli.tasks.CreateTask(study.Task{
		ID: "t1", UserID: "usr", Name: "Thermodynamics", HoursNeeded: 2, Progress: 40,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	_, err = cli.cards.CreateCard(review.Flashcard{
		ID: "c1", UserID: "usr", Term: "entropy", Definition: "disorder",
		Status: review.StatusLearning, LastReviewed: now.Add(-48 * time.Hour), ReviewIntervalDays: 1,
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCard() failed: %v", err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"remind"}, wantErr: errHelp},
		{name: "user but no email", args: []string{"remind", "-user", "usr"}, wantErr: errHelp},
		{name: "remind", args: []string{"remind", "-user", "usr", "-email", "usr@test.cd"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if len(emailsvc.SentMessages) == 0 {
		t.Fatal("no reminder email sent")
	}
	sent := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	if sent.To[0].Address != "usr@test.cd" {
		t.Errorf("To = %s, want usr@test.cd", sent.To[0].Address)
	}
	if !strings.Contains(sent.TextContent, "Flashcards due for review: 1") {
		t.Errorf("reminder body missing due count:\n%s", sent.TextContent)
	}
}
