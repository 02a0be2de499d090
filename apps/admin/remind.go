package main

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/studato/studato/core"
	"github.com/studato/studato/core/review"
)

// remind emails the user a summary of their due flashcards and unfinished
// tasks. The roster lives with the identity provider, so the target address
// is supplied on the command line.
func (cli *commandLine) remind(userID, email string) error {
	now := time.Now().UTC()

	cards, err := cli.cards.QueryCards(userID, review.QueryFilter{})
	if err != nil {
		return err
	}
	due := review.DueCards(cards, now)

	tasks, err := cli.tasks.QueryTasks(userID)
	if err != nil {
		return err
	}

	body := new(strings.Builder)
	fmt.Fprintf(body, "Hi,\n\nHere is your study summary for %s.\n\n", now.Format("Jan 2, 2006"))
	fmt.Fprintf(body, "Flashcards due for review: %d\n\n", len(due))

	var pending int
	for _, t := range tasks {
		if !t.Completed {
			if pending == 0 {
				fmt.Fprint(body, "Tasks in progress:\n")
			}
			pending++
			fmt.Fprintf(body, "  - %s (%.0f%% done)\n", t.Name, t.Progress)
		}
	}
	if pending == 0 {
		fmt.Fprint(body, "All tasks are done. Nice work!\n")
	}

	cli.mail.SendMessages(&core.EmailMessage{
		To:          []mail.Address{{Address: email}},
		Subject:     "Your study reminder",
		TextContent: body.String(),
	})
	fmt.Printf("reminder sent to %s\n", email)
	return nil
}
