package progress

import (
	"testing"
	"time"

	"github.com/matheus3301/smsarchive/internal/bus"
	"github.com/matheus3301/smsarchive/internal/export"
	"github.com/matheus3301/smsarchive/internal/status"
)

func TestRunCountsConversations(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("export.", 16)
	defer unsub()

	bar := New(false)
	done := make(chan struct{})
	go func() {
		bar.Run(ch)
		close(done)
	}()

	b.Publish(bus.NewEvent(export.EventStarted, export.Started{Contacts: 2, Messages: 5}))
	b.Publish(bus.NewEvent(export.EventConversationWritten, export.ConversationWritten{Done: 1, Total: 2}))
	b.Publish(bus.NewEvent(export.EventConversationWritten, export.ConversationWritten{Done: 2, Total: 2}))
	b.Publish(bus.NewEvent(status.EventStatusChanged, status.StatusChange{From: status.Indexing, To: status.Done}))
	b.Publish(bus.NewEvent(export.EventFinished, export.Summary{Conversations: 2}))
	b.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the bus closed")
	}
	if bar.Done() != 2 {
		t.Errorf("Done() = %d, want 2", bar.Done())
	}
	if !bar.Finished() {
		t.Error("Finished() = false after the summary event")
	}
}

func TestHandleIgnoresUnknownPayloads(t *testing.T) {
	bar := New(false)
	bar.Handle(bus.Event{Kind: "export.other", Payload: "noise"})
	bar.Handle(bus.Event{Kind: status.EventStatusChanged, Payload: status.StatusChange{To: status.Failed}})
	bar.Stop()
	if bar.Done() != 0 {
		t.Errorf("Done() = %d, want 0", bar.Done())
	}
	if bar.Finished() {
		t.Error("Finished() = true without a summary")
	}
}
