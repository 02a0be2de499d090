package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/studato/studato/core"
	"github.com/studato/studato/core/review"
	"github.com/studato/studato/core/reward"
	"github.com/studato/studato/core/study"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db      *sql.DB
	rewards *reward.Service
	tasks   study.TaskRepository
	cards   review.Repository
	mail    core.EmailService
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Println("  award -user ID -points N - add points to a user's total")
	fmt.Println("  points -user ID - print a user's point total")
	fmt.Println("  remind -user ID -email ADDRESS - email a study reminder")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	awardCmd := flag.NewFlagSet("award", flag.ExitOnError)
	awardUser := awardCmd.String("user", "", "The user's ID.")
	awardPoints := awardCmd.Int("points", 0, "The number of points to add.")

	pointsCmd := flag.NewFlagSet("points", flag.ExitOnError)
	pointsUser := pointsCmd.String("user", "", "The user's ID.")

	remindCmd := flag.NewFlagSet("remind", flag.ExitOnError)
	remindUser := remindCmd.String("user", "", "The user's ID.")
	remindEmail := remindCmd.String("email", "", "The address to send the reminder to.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "award":
		if err := awardCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *awardUser == "" || *awardPoints == 0 {
			awardCmd.Usage()
			return errHelp
		}
		total, err := cli.rewards.Award(*awardUser, *awardPoints)
		if err != nil {
			return err
		}
		fmt.Printf("user %s now has %d points\n", *awardUser, total)
		return nil
	case "points":
		if err := pointsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *pointsUser == "" {
			pointsCmd.Usage()
			return errHelp
		}
		total, err := cli.rewards.Total(*pointsUser)
		if err != nil {
			return err
		}
		fmt.Printf("user %s has %d points\n", *pointsUser, total)
		return nil
	case "remind":
		if err := remindCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *remindUser == "" || *remindEmail == "" {
			remindCmd.Usage()
			return errHelp
		}
		return cli.remind(*remindUser, *remindEmail)
	default:
		cli.printUsage()
		return errHelp
	}
}
