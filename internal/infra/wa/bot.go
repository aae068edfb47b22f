package wa

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"go.mau.fi/whatsmeow/types"
)

type messenger interface {
	SendText(ctx context.Context, chat types.JID, text string) error
	SetTyping(ctx context.Context, chat types.JID, typing bool) error
}

type commandHandler interface {
	Execute(ctx context.Context, senderID, pushName, msg string, now time.Time) (string, error)
}

type BotConfig struct {
	GroupID         string
	ReplyDelayMinMs int
	ReplyDelayMaxMs int
	ShowTyping      bool
}

// Bot answers chat commands and posts notifications to the group.
type Bot struct {
	out     messenger
	handler commandHandler
	cfg     BotConfig
	now     func() time.Time
	sleep   func(time.Duration)
}

func NewBot(out messenger, handler commandHandler, cfg BotConfig, now func() time.Time) *Bot {
	return &Bot{out: out, handler: handler, cfg: cfg, now: now, sleep: time.Sleep}
}

// Handle replies to one incoming message. Messages from other chats (when a
// group is configured), from the bot itself, or without a command are
// ignored.
func (b *Bot) Handle(ctx context.Context, msg IncomingMessage) {
	if b.cfg.GroupID != "" && msg.Chat.String() != b.cfg.GroupID {
		return
	}
	if msg.FromMe || msg.Text == "" {
		return
	}

	pushName := msg.PushName
	if pushName == "" {
		pushName = "Unknown"
	}

	response, err := b.handler.Execute(ctx, msg.SenderID, pushName, msg.Text, b.now())
	if err != nil {
		log.Printf("Error handling message: %v", err)
		return
	}
	if response == "" {
		return
	}

	log.Printf("Command from %s (%s): %s", pushName, msg.SenderID, msg.Text)
	b.delay(ctx, msg.Chat)

	if err := b.out.SendText(ctx, msg.Chat, response); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// delay waits a random time between the configured bounds, optionally
// showing the typing indicator.
func (b *Bot) delay(ctx context.Context, chat types.JID) {
	delayMs := b.cfg.ReplyDelayMinMs
	if b.cfg.ReplyDelayMaxMs > b.cfg.ReplyDelayMinMs {
		delayMs = b.cfg.ReplyDelayMinMs + rand.Intn(b.cfg.ReplyDelayMaxMs-b.cfg.ReplyDelayMinMs+1)
	}
	if delayMs <= 0 {
		return
	}

	if b.cfg.ShowTyping {
		_ = b.out.SetTyping(ctx, chat, true)
	}
	b.sleep(time.Duration(delayMs) * time.Millisecond)
	if b.cfg.ShowTyping {
		_ = b.out.SetTyping(ctx, chat, false)
	}
}

// Notify posts text to the configured group.
func (b *Bot) Notify(ctx context.Context, text string) error {
	if b.cfg.GroupID == "" {
		return errors.New("GROUP_ID is not configured")
	}
	group, err := types.ParseJID(b.cfg.GroupID)
	if err != nil {
		return err
	}
	return b.out.SendText(ctx, group, text)
}

func (b *Bot) Name() string {
	return "whatsapp"
}
