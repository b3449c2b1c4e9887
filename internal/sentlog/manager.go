package sentlog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sentlog/sentlog/internal/errors"
	"github.com/sentlog/sentlog/internal/model"
	"github.com/sentlog/sentlog/internal/report"
	"github.com/sentlog/sentlog/internal/sentlog/conf"
	"github.com/sentlog/sentlog/internal/sentlog/http"
	"github.com/sentlog/sentlog/internal/tally"
	"github.com/sentlog/sentlog/internal/tray"
	"github.com/sentlog/sentlog/internal/whatsapp"
	"github.com/sentlog/sentlog/pkg/util"
)

// Transport delivers outbound messages from the messaging account.
type Transport interface {
	Subscribe(fn func(*model.OutboundMessage))
	Connect(ctx context.Context) error
	Close() error
}

// Manager owns one counting run: it feeds the accumulator from the
// transport and exports the tally exactly once when the run ends.
type Manager struct {
	conf      *conf.Config
	acc       *tally.Accumulator
	handler   *tally.Handler
	exporter  *report.Exporter
	transport Transport
	ready     func(time.Duration) bool

	http *http.Service
	tray tray.Controller

	cancel       context.CancelFunc
	shutdownOnce sync.Once
	shutdownErr  error
}

// New opens the WhatsApp session store and builds a manager around it.
func New(ctx context.Context, cfg *conf.Config) (*Manager, error) {
	client, err := whatsapp.New(ctx, whatsapp.Config{StorePath: cfg.WhatsApp.Store})
	if err != nil {
		return nil, err
	}
	m, err := NewWithTransport(cfg, client, client.Directory())
	if err != nil {
		client.Close()
		return nil, err
	}
	m.ready = client.WaitReady
	return m, nil
}

// NewWithTransport builds a manager on any transport and directory.
func NewWithTransport(cfg *conf.Config, t Transport, dir tally.Directory) (*Manager, error) {
	loc, err := cfg.Report.Location()
	if err != nil {
		return nil, fmt.Errorf("report timezone %q: %w", cfg.Report.Timezone, err)
	}
	formatter, err := report.NewFormatter(cfg.Report.Locale, loc)
	if err != nil {
		return nil, err
	}
	writer, err := report.NewWriter(cfg.Export.Format)
	if err != nil {
		return nil, err
	}

	acc := tally.NewAccumulator(uuid.NewString())
	m := &Manager{
		conf:      cfg,
		acc:       acc,
		handler:   tally.NewHandler(acc, dir, formatter.Stamp),
		exporter:  report.NewExporter(exportPath(cfg.Export.Path, writer), cfg.Export.Sheet, writer, formatter),
		transport: t,
	}
	if cfg.IsHTTPEnabled() {
		m.http = http.NewService(cfg, acc, m.exporter)
	}
	return m, nil
}

// exportPath keeps the default file name in step with a non-xlsx format.
func exportPath(path string, w report.Writer) string {
	if strings.TrimSpace(path) == "" {
		path = report.DefaultPath
	}
	if path == report.DefaultPath && filepath.Ext(path) != w.Ext() {
		return strings.TrimSuffix(path, filepath.Ext(path)) + w.Ext()
	}
	return path
}

func (m *Manager) RunID() string {
	return m.acc.RunID()
}

func (m *Manager) Accumulator() *tally.Accumulator {
	return m.acc
}

func (m *Manager) ExportPath() string {
	return m.exporter.Path()
}

// Run connects and counts until ctx is cancelled or the tray asks to quit,
// then seals and exports.
func (m *Manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.cancel = cancel

	log.Info().Str("run_id", m.RunID()).Str("output", m.ExportPath()).Msg("counting sent messages, press Ctrl+C to export")

	if m.http != nil {
		if err := m.http.Start(); err != nil {
			return err
		}
	}
	if m.conf.Tray.Enabled {
		m.startTray()
	}

	m.transport.Subscribe(func(msg *model.OutboundMessage) {
		m.handler.Handle(ctx, msg)
	})

	if err := m.transport.Connect(ctx); err != nil && ctx.Err() == nil {
		m.release()
		return fmt.Errorf("connect: %w", err)
	}
	if m.ready != nil && ctx.Err() == nil && !m.ready(m.conf.WhatsApp.ConnectTimeout) {
		log.Warn().Dur("timeout", m.conf.WhatsApp.ConnectTimeout).Msg("still not connected, counting starts once the connection is up")
	}

	<-ctx.Done()
	log.Info().Msg("stopping, exporting report")
	return m.Shutdown()
}

// Stop ends a running Run as an interrupt would.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Manager) startTray() {
	opts := tray.Options{OnQuit: m.Stop}
	if m.http != nil {
		url := util.ComposeLANURL(m.conf.GetHTTPAddr()) + "/api/v1/status"
		opts.OnOpen = func() {
			if err := util.OpenBrowser(url); err != nil {
				log.Err(err).Msg("open status page")
			}
		}
	}
	ctrl, err := tray.Start(opts)
	if err != nil {
		log.Err(err).Msg("failed to start tray")
		return
	}
	m.tray = ctrl
}

// Shutdown seals the accumulator, writes the report and releases the
// transport. Later calls return the first result.
func (m *Manager) Shutdown() error {
	m.shutdownOnce.Do(func() {
		defer m.release()

		snap, err := m.acc.Seal()
		if err != nil {
			m.shutdownErr = errors.Sealed(err)
			return
		}
		if err := m.exporter.Export(snap); err != nil {
			m.shutdownErr = errors.ExportFailed(err)
			return
		}
		log.Info().
			Int64("messages", snap.Totals.Count).
			Int("conversations", len(snap.Order)).
			Msg("export finished")
	})
	return m.shutdownErr
}

func (m *Manager) release() {
	if err := m.transport.Close(); err != nil {
		log.Debug().Err(err).Msg("close transport")
	}
	if m.http != nil {
		m.http.Stop()
	}
	if m.tray != nil {
		m.tray.Stop()
		m.tray = nil
	}
}
