package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/smsarchive/internal/store"
)

func TestCreateDemoDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sms.db")
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	if err := createDemoDB(path, now); err != nil {
		t.Fatal(err)
	}

	db, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	arc, err := db.Load()
	if err != nil {
		t.Fatal(err)
	}
	if arc.Contacts.Len() != 3 || len(arc.Messages) != 6 {
		t.Fatalf("got %d contacts, %d messages", arc.Contacts.Len(), len(arc.Messages))
	}

	last := arc.Messages[len(arc.Messages)-1]
	if want := now.Add(-time.Hour); !last.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", last.Timestamp, want)
	}

	if _, ok, err := arc.Attachments.Attachment(5); err != nil || !ok {
		t.Errorf("Attachment(5) ok=%v err=%v", ok, err)
	}
}
