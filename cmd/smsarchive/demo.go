package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheus3301/smsarchive/internal/store"
)

func newDemoDBCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo-db <path>",
		Short: "Create a small sample message store to try an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := createDemoDB(path, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}

func createDemoDB(path string, now time.Time) error {
	db, err := store.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Migrate(); err != nil {
		return err
	}
	return db.Seed(demoData(now))
}

// demoData covers both channels, both directions, an attachment and a contact
// without messages. Messages are spaced over the two days before now.
func demoData(now time.Time) store.SeedData {
	text := func(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
	at := func(ago time.Duration) int64 {
		t := now.Add(-ago).UTC()
		return (t.Unix()-store.AppleEpochUnix)*store.TicksPerSecond + int64(t.Nanosecond())
	}
	me := text("e:me@example.com")

	return store.SeedData{
		Handles: []store.SeedHandle{
			{ID: 1, Address: "+15551234567", Service: "SMS"},
			{ID: 2, Address: "alice@example.com", Service: "iMessage", DisplayName: text("Alice")},
			{ID: 3, Address: "+15557654321", Service: "SMS"},
		},
		Messages: []store.SeedMessage{
			{ID: 1, Text: text("hello"), HandleID: 1, Service: "SMS", Account: text("p:+15550001111"), Date: at(49 * time.Hour), Read: true},
			{ID: 2, Text: text("hi there"), HandleID: 1, Service: "SMS", Account: text("p:+15550001111"), Date: at(48 * time.Hour), FromMe: true, Delivered: true},
			{ID: 3, Text: text("Lunch tomorrow?"), HandleID: 2, Service: "iMessage", Account: me, Date: at(26 * time.Hour), Read: true},
			{ID: 4, Text: text("Sure! Here is the place"), HandleID: 2, Service: "iMessage", Account: me, Date: at(25 * time.Hour), FromMe: true, Delivered: true},
			{ID: 5, Text: text("\ufffc"), HandleID: 2, Service: "iMessage", Account: me, Date: at(25*time.Hour - time.Minute), FromMe: true, Delivered: true},
			{ID: 6, Text: text("See you there.\nDon't be late!"), HandleID: 2, Service: "iMessage", Account: me, Date: at(time.Hour), Read: true},
		},
		Attachments: []store.SeedAttachment{
			{MessageID: 5, Path: text("~/Library/SMS/Attachments/4f/15/IMG_0001.jpg"), MIME: text("image/jpeg")},
		},
	}
}
