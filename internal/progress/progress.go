// Package progress shows the export's progress on the terminal.
package progress

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"github.com/matheus3301/smsarchive/internal/bus"
	"github.com/matheus3301/smsarchive/internal/export"
	"github.com/matheus3301/smsarchive/internal/status"
)

// Bar renders a progress bar from export events.
type Bar struct {
	mu      sync.Mutex
	pb      *pterm.ProgressbarPrinter
	enabled bool
	total    int
	done     int
	finished bool
}

// New creates a bar. A disabled bar only counts events.
func New(enabled bool) *Bar {
	return &Bar{enabled: enabled}
}

// Run consumes events until the channel is closed.
func (b *Bar) Run(events <-chan bus.Event) {
	for evt := range events {
		b.Handle(evt)
	}
	b.Stop()
}

// Handle updates the bar for one event.
func (b *Bar) Handle(evt bus.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch p := evt.Payload.(type) {
	case export.Started:
		b.total = p.Contacts
		if !b.enabled || p.Contacts == 0 {
			return
		}
		pterm.Info.Printf("Contacts: %d, messages: %d\n", p.Contacts, p.Messages)
		pb, err := pterm.DefaultProgressbar.
			WithTotal(p.Contacts).
			WithTitle("Making conversations").
			Start()
		if err == nil {
			b.pb = pb
		}
	case export.ConversationWritten:
		b.done++
		if b.pb != nil {
			b.pb.UpdateTitle(fmt.Sprintf("Making conversation %d/%d", p.Done, p.Total))
			b.pb.Increment()
		}
	case export.Summary:
		b.finished = true
		b.stopLocked()
		if b.enabled {
			printSummary(p)
		}
	case status.StatusChange:
		if p.To == status.Failed {
			b.stopLocked()
		}
	}
}

// Done returns the number of conversations reported so far.
func (b *Bar) Done() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// Finished reports whether the run summary has been received.
func (b *Bar) Finished() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.finished
}

// Stop finalizes the bar. Safe to call more than once.
func (b *Bar) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

func (b *Bar) stopLocked() {
	if b.pb == nil {
		return
	}
	_, _ = b.pb.Stop()
	b.pb = nil
}

func printSummary(s export.Summary) {
	pterm.DefaultSection.Println("Export complete")
	data := pterm.TableData{
		{"Output", s.Output},
		{"Conversations", strconv.Itoa(s.Conversations)},
		{"Messages", strconv.Itoa(s.Messages)},
		{"Attachments", strconv.Itoa(s.Attachments)},
		{"Attachments not found", strconv.Itoa(s.AttachmentFailures)},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
	}
	if s.AttachmentsCopied > 0 {
		data = append(data, []string{"Attachment files copied", strconv.Itoa(s.AttachmentsCopied)})
	}
	_ = pterm.DefaultTable.WithData(data).Render()
}
