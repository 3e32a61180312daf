package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/JAssiston43/whatsapp-ai-bot/internal/bus"
)

const (
	cmdMenu    = "!menu"
	cmdHelp    = "!help"
	cmdCreator = "!creator"
	cmdImage   = "!img"
	cmdVoice   = "!voice"
)

func (d *Dispatcher) handle(ctx context.Context, m bus.Inbound) {
	text := strings.TrimSpace(m.Text)

	switch {
	case m.HasMedia() && hasCommand(text, cmdImage):
		d.handleImageEdit(ctx, m, commandArg(text, cmdImage))
	case hasCommand(text, cmdImage):
		d.handleImageGenerate(ctx, m, commandArg(text, cmdImage))
	case hasCommand(text, cmdVoice):
		d.handleVoice(ctx, m, commandArg(text, cmdVoice))
	case text == cmdMenu || text == cmdHelp:
		d.sendText(ctx, m, d.menuText())
	case text == cmdCreator:
		d.sendText(ctx, m, d.creatorText())
	case text == "":
		// Media without a command, reactions, etc. Nothing to do.
	default:
		d.handleReply(ctx, m, text)
	}
}

func (d *Dispatcher) handleReply(ctx context.Context, m bus.Inbound, text string) {
	replyText, err := d.replier.GetReply(ctx, m.SenderID, text)
	if err != nil {
		// Classification detail stays in the log; the user always gets the
		// same generic notice.
		d.logger.Error("reply_failed", "sender_id", m.SenderID, "message_id", m.ID, "error", err.Error())
		d.sendText(ctx, m, failureNotice)
		return
	}
	if strings.TrimSpace(replyText) == "" {
		replyText = "(no response)"
	}
	d.sendText(ctx, m, replyText)

	if d.recorder != nil {
		if err := d.recorder.Record(m.SenderID, text, replyText); err != nil {
			d.logger.Warn("transcript_write_error", "error", err.Error())
		}
	}
}

func (d *Dispatcher) handleImageGenerate(ctx context.Context, m bus.Inbound, prompt string) {
	if d.media == nil || prompt == "" {
		d.sendText(ctx, m, d.menuText())
		return
	}
	data, err := d.media.GenerateImage(ctx, prompt)
	if err != nil {
		d.logger.Error("image_generate_failed", "sender_id", m.SenderID, "error", err.Error())
		d.sendText(ctx, m, failureNotice)
		return
	}
	if err := d.transport.SendImage(ctx, m.SenderID, data, "image/png", prompt); err != nil {
		d.logger.Warn("send_image_error", "sender_id", m.SenderID, "error", err.Error())
	}
}

func (d *Dispatcher) handleImageEdit(ctx context.Context, m bus.Inbound, prompt string) {
	if d.media == nil || prompt == "" {
		d.sendText(ctx, m, d.menuText())
		return
	}
	data, err := d.media.EditImage(ctx, m.Media, prompt)
	if err != nil {
		d.logger.Error("image_edit_failed", "sender_id", m.SenderID, "error", err.Error())
		d.sendText(ctx, m, failureNotice)
		return
	}
	if err := d.transport.SendImage(ctx, m.SenderID, data, "image/png", prompt); err != nil {
		d.logger.Warn("send_image_error", "sender_id", m.SenderID, "error", err.Error())
	}
}

func (d *Dispatcher) handleVoice(ctx context.Context, m bus.Inbound, text string) {
	if d.media == nil || text == "" {
		d.sendText(ctx, m, d.menuText())
		return
	}
	data, err := d.media.Speech(ctx, text)
	if err != nil {
		d.logger.Error("voice_failed", "sender_id", m.SenderID, "error", err.Error())
		d.sendText(ctx, m, failureNotice)
		return
	}
	if err := d.transport.SendVoice(ctx, m.SenderID, data, "audio/ogg; codecs=opus"); err != nil {
		d.logger.Warn("send_voice_error", "sender_id", m.SenderID, "error", err.Error())
	}
}

func (d *Dispatcher) sendText(ctx context.Context, m bus.Inbound, text string) {
	if err := d.transport.SendText(ctx, m.SenderID, text); err != nil {
		d.logger.Warn("send_text_error", "sender_id", m.SenderID, "error", err.Error())
	}
}

func (d *Dispatcher) menuText() string {
	name := d.cfg.BotName
	if name == "" {
		name = "the bot"
	}
	return fmt.Sprintf(
		"Hi! I'm %s.\n\n"+
			"Send me any message and I'll answer.\n"+
			"%s <prompt> - generate an image (attach an image to edit it)\n"+
			"%s <text> - speak the text as a voice note\n"+
			"%s - about my creator",
		name, cmdImage, cmdVoice, cmdCreator,
	)
}

func (d *Dispatcher) creatorText() string {
	if d.cfg.CreatorInfo != "" {
		return d.cfg.CreatorInfo
	}
	return "I was built with the whatsapp-ai-bot project."
}

func hasCommand(text, cmd string) bool {
	return text == cmd || strings.HasPrefix(text, cmd+" ")
}

func commandArg(text, cmd string) string {
	return strings.TrimSpace(strings.TrimPrefix(text, cmd))
}
