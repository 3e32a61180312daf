// Package whatsapp wraps whatsmeow behind the bot's Transport interface.
// All protocol concerns (pairing, session storage, media upload/download)
// stay inside this package; the rest of the bot sees bus.Inbound events and
// three send methods.
package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"github.com/JAssiston43/whatsapp-ai-bot/internal/bus"
	"github.com/JAssiston43/whatsapp-ai-bot/internal/fsstore"
	"github.com/JAssiston43/whatsapp-ai-bot/internal/pathutil"
)

type Config struct {
	DBPath string
}

// Handler receives every accepted inbound event. It must not block; the
// dispatcher behind it queues per sender.
type Handler func(bus.Inbound)

type Client struct {
	wa      *whatsmeow.Client
	logger  *slog.Logger
	handler Handler
}

func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dbPath := pathutil.ExpandHomePath(strings.TrimSpace(cfg.DBPath))
	if dbPath == "" {
		dbPath = "wabot-session.db"
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := fsstore.EnsureDir(dir); err != nil {
			return nil, err
		}
	}

	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", dbPath), waLog.Noop)
	if err != nil {
		return nil, fmt.Errorf("whatsapp session store: %w", err)
	}
	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("whatsapp device: %w", err)
	}

	c := &Client{
		wa:     whatsmeow.NewClient(device, waLog.Noop),
		logger: logger,
	}
	c.wa.AddEventHandler(c.onEvent)
	return c, nil
}

// SetHandler must be called before Connect.
func (c *Client) SetHandler(h Handler) {
	c.handler = h
}

// Connect establishes the session. An unpaired device prints a QR code to
// the terminal and blocks until it is scanned or ctx ends.
func (c *Client) Connect(ctx context.Context) error {
	if c.wa.Store.ID != nil {
		return c.wa.Connect()
	}

	qrChan, err := c.wa.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("whatsapp qr channel: %w", err)
	}
	if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("whatsapp connect: %w", err)
	}
	for evt := range qrChan {
		switch evt.Event {
		case "code":
			c.logger.Info("whatsapp_qr_code", "hint", "scan with the WhatsApp app")
			qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
		case "success":
			c.logger.Info("whatsapp_paired")
			return nil
		default:
			c.logger.Warn("whatsapp_qr_event", "event", evt.Event)
		}
	}
	return ctx.Err()
}

func (c *Client) Disconnect() {
	c.wa.Disconnect()
}

func (c *Client) onEvent(evt any) {
	msg, ok := evt.(*events.Message)
	if !ok {
		return
	}
	if msg.Info.IsFromMe || msg.Info.IsGroup {
		return
	}
	if c.handler == nil {
		return
	}

	in := bus.NewInbound(msg.Info.Sender.ToNonAD().String(), msg.Info.PushName, "")

	switch {
	case msg.Message.GetConversation() != "":
		in.Text = msg.Message.GetConversation()
	case msg.Message.GetExtendedTextMessage().GetText() != "":
		in.Text = msg.Message.GetExtendedTextMessage().GetText()
	case msg.Message.GetImageMessage() != nil:
		img := msg.Message.GetImageMessage()
		in.Text = img.GetCaption()
		data, err := c.wa.Download(context.Background(), img)
		if err != nil {
			c.logger.Warn("whatsapp_download_error", "sender_id", in.SenderID, "error", err.Error())
			return
		}
		in.Media = data
		in.MIMEType = img.GetMimetype()
	default:
		// Stickers, reactions, receipts and other payloads the bot does
		// not handle.
		return
	}

	c.handler(in)
}

func (c *Client) SendText(ctx context.Context, to, text string) error {
	jid, err := parseJID(to)
	if err != nil {
		return err
	}
	_, err = c.wa.SendMessage(ctx, jid, &waProto.Message{Conversation: proto.String(text)})
	return err
}

func (c *Client) SendImage(ctx context.Context, to string, data []byte, mimeType, caption string) error {
	jid, err := parseJID(to)
	if err != nil {
		return err
	}
	up, err := c.wa.Upload(ctx, data, whatsmeow.MediaImage)
	if err != nil {
		return fmt.Errorf("whatsapp upload image: %w", err)
	}
	_, err = c.wa.SendMessage(ctx, jid, &waProto.Message{
		ImageMessage: &waProto.ImageMessage{
			Caption:       proto.String(caption),
			Mimetype:      proto.String(mimeType),
			URL:           &up.URL,
			DirectPath:    &up.DirectPath,
			MediaKey:      up.MediaKey,
			FileEncSHA256: up.FileEncSHA256,
			FileSHA256:    up.FileSHA256,
			FileLength:    &up.FileLength,
		},
	})
	return err
}

func (c *Client) SendVoice(ctx context.Context, to string, data []byte, mimeType string) error {
	jid, err := parseJID(to)
	if err != nil {
		return err
	}
	up, err := c.wa.Upload(ctx, data, whatsmeow.MediaAudio)
	if err != nil {
		return fmt.Errorf("whatsapp upload audio: %w", err)
	}
	_, err = c.wa.SendMessage(ctx, jid, &waProto.Message{
		AudioMessage: &waProto.AudioMessage{
			PTT:           proto.Bool(true),
			Mimetype:      proto.String(mimeType),
			URL:           &up.URL,
			DirectPath:    &up.DirectPath,
			MediaKey:      up.MediaKey,
			FileEncSHA256: up.FileEncSHA256,
			FileSHA256:    up.FileSHA256,
			FileLength:    &up.FileLength,
		},
	})
	return err
}

func parseJID(raw string) (types.JID, error) {
	jid, err := types.ParseJID(raw)
	if err != nil {
		return types.EmptyJID, fmt.Errorf("whatsapp jid %q: %w", raw, err)
	}
	return jid, nil
}
