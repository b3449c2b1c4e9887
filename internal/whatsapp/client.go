package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal/v3"
	"github.com/rs/zerolog/log"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/sentlog/sentlog/internal/model"
)

// DefaultStorePath is the sqlite file holding the linked-device session.
const DefaultStorePath = "sentlog.db"

type Config struct {
	StorePath string
	// QROutput receives the pairing QR code; stdout when nil.
	QROutput io.Writer
}

// Client wraps a whatsmeow client linked as a companion device.
type Client struct {
	cli       *whatsmeow.Client
	container *sqlstore.Container
	dir       *Directory
	qrOut     io.Writer
}

// New opens the session store and prepares a client. It does not connect.
func New(ctx context.Context, cfg Config) (*Client, error) {
	path := cfg.StorePath
	if path == "" {
		path = DefaultStorePath
	}
	qrOut := cfg.QROutput
	if qrOut == nil {
		qrOut = os.Stdout
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", path)
	container, err := sqlstore.New(ctx, "sqlite3", dsn, waLog.Zerolog(log.With().Str("module", "whatsapp-store").Logger()))
	if err != nil {
		return nil, fmt.Errorf("open session store %s: %w", path, err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("load device: %w", err)
	}

	cli := whatsmeow.NewClient(device, waLog.Zerolog(log.With().Str("module", "whatsapp").Logger()))
	return &Client{
		cli:       cli,
		container: container,
		dir:       NewDirectory(cli, device.Contacts, device.LIDs),
		qrOut:     qrOut,
	}, nil
}

// Directory resolves chat names through this client.
func (c *Client) Directory() *Directory {
	return c.dir
}

// Paired reports whether the store already holds a linked device.
func (c *Client) Paired() bool {
	return c.cli.Store.ID != nil
}

// Subscribe forwards every message event, normalized, to fn. Connection
// lifecycle events are logged here.
func (c *Client) Subscribe(fn func(*model.OutboundMessage)) {
	c.cli.AddEventHandler(func(evt any) {
		switch v := evt.(type) {
		case *events.Message:
			msg, ok := Normalize(v)
			if !ok {
				return
			}
			fn(&msg)
		case *events.GroupInfo:
			if v.Name != nil {
				c.dir.Forget(v.JID.String())
			}
		case *events.Connected:
			log.Info().Msg("client ready")
		case *events.PairSuccess:
			log.Info().Str("jid", v.ID.String()).Msg("device paired")
		case *events.LoggedOut:
			log.Warn().Str("reason", v.Reason.String()).Msg("device logged out, pair again to keep counting")
		case *events.Disconnected:
			log.Warn().Msg("disconnected, waiting for reconnect")
		}
	})
}

// Connect connects to WhatsApp. On an unpaired store it prints pairing QR
// codes until the device is linked or ctx ends.
func (c *Client) Connect(ctx context.Context) error {
	if c.Paired() {
		return c.cli.Connect()
	}

	qrChan, err := c.cli.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("qr channel: %w", err)
	}
	if err := c.cli.Connect(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item, ok := <-qrChan:
			if !ok {
				return nil
			}
			switch item.Event {
			case "code":
				qrterminal.GenerateHalfBlock(item.Code, qrterminal.L, c.qrOut)
				log.Info().Dur("expires_in", item.Timeout).Msg("scan the QR code above to authenticate")
			case "success":
				return nil
			default:
				if item.Error != nil {
					return fmt.Errorf("pairing: %w", item.Error)
				}
				return fmt.Errorf("pairing: %s", item.Event)
			}
		}
	}
}

// WaitReady blocks until the client is connected and logged in, or timeout.
func (c *Client) WaitReady(timeout time.Duration) bool {
	return c.cli.WaitForConnection(timeout)
}

// Logout unlinks the device from the account and clears the local session.
func (c *Client) Logout(ctx context.Context) error {
	if !c.Paired() {
		return errors.New("no linked device in session store")
	}
	if !c.cli.IsConnected() {
		if err := c.cli.Connect(); err != nil {
			return err
		}
	}
	return c.cli.Logout(ctx)
}

// Close disconnects and releases the session store.
func (c *Client) Close() error {
	c.cli.Disconnect()
	return c.container.Close()
}
