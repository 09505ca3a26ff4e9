// Package export runs one export: it loads a message store and writes the
// conversation pages and index of a static archive.
package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matheus3301/smsarchive/internal/attachment"
	"github.com/matheus3301/smsarchive/internal/bus"
	"github.com/matheus3301/smsarchive/internal/config"
	"github.com/matheus3301/smsarchive/internal/lock"
	"github.com/matheus3301/smsarchive/internal/paths"
	"github.com/matheus3301/smsarchive/internal/render"
	"github.com/matheus3301/smsarchive/internal/resources"
	"github.com/matheus3301/smsarchive/internal/status"
	"github.com/matheus3301/smsarchive/internal/store"
)

// Engine performs a single export run.
type Engine struct {
	cfg     *config.Config
	db      *store.DB
	res     *resources.Set
	bus     *bus.Bus
	machine *status.Machine
	logger  *zap.Logger
}

// NewEngine creates an export engine. b and machine may be nil.
func NewEngine(cfg *config.Config, db *store.DB, res *resources.Set, b *bus.Bus, machine *status.Machine, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if machine == nil {
		machine = status.NewMachine(b)
	}
	return &Engine{
		cfg:     cfg,
		db:      db,
		res:     res,
		bus:     b,
		machine: machine,
		logger:  logger,
	}
}

// Run exports the whole store. It fails without writing anything if the
// output directory exists; any later error leaves a partial output behind.
func (e *Engine) Run(ctx context.Context) (summary Summary, err error) {
	start := time.Now()
	summary.Output = e.cfg.Output
	defer func() {
		summary.Duration = time.Since(start)
		if err != nil {
			e.machine.Fail()
			e.logger.Error("export failed", zap.Error(err), zap.String("output", e.cfg.Output))
		}
	}()

	if err := e.transition(status.Preparing); err != nil {
		return summary, err
	}
	lk, err := lock.Acquire(paths.LockPath(e.cfg.Output))
	if err != nil {
		return summary, err
	}
	defer func() {
		if relErr := lk.Release(); relErr != nil {
			e.logger.Warn("error releasing lock", zap.Error(relErr))
		}
	}()

	if _, err := os.Lstat(e.cfg.Output); err == nil {
		return summary, &OutputExistsError{Path: e.cfg.Output}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return summary, fmt.Errorf("stat output: %w", err)
	}

	if err := e.transition(status.Loading); err != nil {
		return summary, err
	}
	arc, err := e.db.Load()
	if err != nil {
		return summary, fmt.Errorf("load store: %w", err)
	}
	contacts := arc.Contacts.Contacts()
	summary.Contacts = len(contacts)
	summary.Messages = len(arc.Messages)
	for i := range arc.Messages {
		m := &arc.Messages[i]
		if m.Account.Valid && !m.SelfAddress.Valid {
			summary.MalformedAccounts++
		}
		if m.Contact.ID == store.UnknownContact.ID {
			summary.Orphaned++
		}
	}
	e.logger.Info("store loaded",
		zap.Int("contacts", summary.Contacts),
		zap.Int("messages", summary.Messages),
		zap.String("resources", e.res.Source))
	if summary.MalformedAccounts > 0 {
		e.logger.Warn("account fields without a protocol tag; self address left empty", zap.Int("messages", summary.MalformedAccounts))
	}
	e.publish(EventStarted, Started{Contacts: summary.Contacts, Messages: summary.Messages})

	resolver, err := e.prepareOutput(&summary)
	if err != nil {
		return summary, err
	}
	if resolver != nil {
		e.logger.Debug("attachment links", zap.String("base", resolver.BaseDir()))
	}

	if err := e.transition(status.Rendering); err != nil {
		return summary, err
	}
	previews, stats, err := e.renderConversations(ctx, arc, contacts, resolver)
	summary.Conversations = stats.pages
	summary.Attachments = stats.Attachments
	summary.AttachmentFailures = stats.AttachmentFailures
	if err != nil {
		return summary, err
	}

	if err := e.transition(status.Indexing); err != nil {
		return summary, err
	}
	listing := render.NewDirectoryRenderer(e.renderOptions(nil)).Render(contacts, previews)
	if err := writePage(paths.IndexPath(e.cfg.Output), render.IndexPage(e.res.Index, listing)); err != nil {
		return summary, err
	}

	if err := e.transition(status.Done); err != nil {
		return summary, err
	}
	summary.Duration = time.Since(start)
	e.logger.Info("export complete", summary.Fields()...)
	e.publish(EventFinished, summary)
	return summary, nil
}

// prepareOutput creates the output directory, copies static assets and
// attachments, and returns the attachment resolver pages should use.
func (e *Engine) prepareOutput(summary *Summary) (*attachment.Resolver, error) {
	if err := os.MkdirAll(e.cfg.Output, 0755); err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	missing, err := e.res.CopyStatic(e.cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}
	summary.MissingStatic = missing
	if len(missing) > 0 {
		e.logger.Warn("static assets not found", zap.Strings("files", missing), zap.String("resources", e.res.Source))
	}

	if e.cfg.AttachmentsDir == "" {
		return nil, nil
	}
	if !e.cfg.CopyAttachments {
		return attachment.NewResolver(e.cfg.AttachmentsDir), nil
	}

	dst := paths.AttachmentsDir(e.cfg.Output)
	e.logger.Info("copying attachments directory", zap.String("from", e.cfg.AttachmentsDir), zap.String("to", dst))
	n, err := resources.CopyTree(e.cfg.AttachmentsDir, dst)
	if err != nil {
		return nil, fmt.Errorf("copy attachments: %w", err)
	}
	summary.AttachmentsCopied = n
	e.logger.Info("attachments copied", zap.Int("files", n))
	return attachment.NewRelativeResolver(attachment.RootSegment), nil
}

type renderStats struct {
	render.Stats
	pages int
}

// renderConversations writes one page per contact and returns each
// contact's last message body for the index.
func (e *Engine) renderConversations(ctx context.Context, arc *store.Archive, contacts []store.Contact, resolver *attachment.Resolver) (map[int64]sql.NullString, renderStats, error) {
	convs := arc.Conversations()
	previews := make(map[int64]sql.NullString, len(contacts))
	for _, c := range contacts {
		if msgs := convs[c.Key()]; len(msgs) > 0 {
			previews[c.ID] = msgs[len(msgs)-1].Body
		}
	}

	renderer := render.NewConversationRenderer(arc.Attachments, e.renderOptions(resolver))

	var (
		mu    sync.Mutex
		stats renderStats
		done  atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.Workers, 1))

	for _, c := range contacts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			msgs := convs[c.Key()]
			page, st, err := renderer.RenderPage(e.res.Chat, c, msgs)
			if err != nil {
				return fmt.Errorf("render %w", err)
			}
			file := render.ConversationFile(c.ID)
			if err := writePage(filepath.Join(e.cfg.Output, file), page); err != nil {
				return err
			}

			mu.Lock()
			stats.Add(st)
			stats.pages++
			mu.Unlock()

			n := int(done.Add(1))
			e.logger.Debug("conversation written",
				zap.Int("done", n),
				zap.Int("total", len(contacts)),
				zap.Int64("contact", c.ID),
				zap.Int("messages", len(msgs)),
				zap.Int("attachment_failures", st.AttachmentFailures))
			e.publish(EventConversationWritten, ConversationWritten{
				Done:      n,
				Total:     len(contacts),
				ContactID: c.ID,
				Address:   c.Address,
				Messages:  len(msgs),
				File:      file,
			})
			return nil
		})
	}
	err := g.Wait()
	return previews, stats, err
}

func (e *Engine) renderOptions(resolver *attachment.Resolver) render.Options {
	return render.Options{Resolver: resolver, EscapeHTML: e.cfg.EscapeHTML}
}

func (e *Engine) transition(to status.State) error {
	if err := e.machine.Transition(to); err != nil {
		return fmt.Errorf("export phase: %w", err)
	}
	e.logger.Debug("phase", zap.String("state", string(to)))
	return nil
}

func (e *Engine) publish(kind string, payload any) {
	if e.bus != nil {
		e.bus.Publish(bus.NewEvent(kind, payload))
	}
}

func writePage(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
