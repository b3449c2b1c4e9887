package sentlog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sentlog/sentlog/internal/model"
	"github.com/sentlog/sentlog/internal/report"
	"github.com/sentlog/sentlog/internal/sentlog/conf"
	"github.com/sentlog/sentlog/internal/tally"
)

type fakeTransport struct {
	fn         func(*model.OutboundMessage)
	connectErr error
	connected  chan struct{}
	closed     int
}

func newTransport() *fakeTransport {
	return &fakeTransport{connected: make(chan struct{})}
}

func (f *fakeTransport) Subscribe(fn func(*model.OutboundMessage)) { f.fn = fn }

func (f *fakeTransport) Connect(context.Context) error {
	close(f.connected)
	return f.connectErr
}

func (f *fakeTransport) Close() error {
	f.closed++
	return nil
}

type fakeDirectory struct{}

func (fakeDirectory) GroupName(_ context.Context, chatID string) (string, error) {
	if chatID == "120363@g.us" {
		return "Team", nil
	}
	return "", nil
}

func (fakeDirectory) Contact(_ context.Context, chatID string) (*model.Contact, error) {
	return &model.Contact{PushName: "Alice", Number: "5511999"}, nil
}

func testConfig(t *testing.T) *conf.Config {
	return &conf.Config{
		Export: conf.ExportConfig{Path: filepath.Join(t.TempDir(), report.DefaultPath), Format: "xlsx"},
		Report: conf.ReportConfig{Locale: "pt-BR", Timezone: "UTC"},
	}
}

func sent(chat string, group bool, at time.Time) *model.OutboundMessage {
	return &model.OutboundMessage{ChatID: chat, IsGroup: group, FromMe: true, Body: "oi", Timestamp: at}
}

func TestManager_RunExportsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	tr := newTransport()
	m, err := NewWithTransport(cfg, tr, fakeDirectory{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	<-tr.connected
	t0 := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	tr.fn(sent("120363@g.us", true, t0))
	tr.fn(sent("5511999@s.whatsapp.net", false, t0.Add(2*time.Minute)))
	tr.fn(sent("120363@g.us", true, t0.Add(65*time.Minute)))
	tr.fn(&model.OutboundMessage{ChatID: "120363@g.us", IsGroup: true, Timestamp: t0})
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, 1, tr.closed)
	assert.Equal(t, tally.Exporting, m.Accumulator().State())

	book, err := excelize.OpenFile(cfg.Export.Path)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Mensagens Enviadas")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Team", "2", "17/10/2026", "17/10/2026 10:00:00 - 17/10/2026 11:05:00"}, rows[1])
	assert.Equal(t, []string{"Alice", "1", "17/10/2026", "17/10/2026 10:02:00 - 17/10/2026 10:02:00"}, rows[2])
	assert.Equal(t, []string{"TOTAL DO DIA", "3", "17/10/2026", "1 horas e 5 minutos"}, rows[3])
}

func TestManager_ShutdownOnce(t *testing.T) {
	cfg := testConfig(t)
	tr := newTransport()
	m, err := NewWithTransport(cfg, tr, fakeDirectory{})
	require.NoError(t, err)

	require.NoError(t, m.Shutdown())
	require.NoError(t, m.Shutdown())
	assert.Equal(t, 1, tr.closed)
	assert.ErrorIs(t, m.Accumulator().Record("late", time.Now()), tally.ErrSealed)
	assert.FileExists(t, cfg.Export.Path)
}

func TestManager_ConnectFailure(t *testing.T) {
	cfg := testConfig(t)
	tr := newTransport()
	tr.connectErr = errors.New("boom")
	m, err := NewWithTransport(cfg, tr, fakeDirectory{})
	require.NoError(t, err)

	err = m.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 1, tr.closed)
	assert.NoFileExists(t, cfg.Export.Path)
}

func TestNewWithTransport_BadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Report.Timezone = "Nowhere/City"
	_, err := NewWithTransport(cfg, newTransport(), fakeDirectory{})
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Report.Locale = "xx"
	_, err = NewWithTransport(cfg, newTransport(), fakeDirectory{})
	assert.Error(t, err)
}

func TestExportPath(t *testing.T) {
	assert.Equal(t, "mensagens_enviadas.csv", exportPath("", report.CSVWriter{}))
	assert.Equal(t, "mensagens_enviadas.xlsx", exportPath("", report.XLSXWriter{}))
	assert.Equal(t, "out/custom.xlsx", exportPath("out/custom.xlsx", report.CSVWriter{}))
}
