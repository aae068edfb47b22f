package wa

import (
	"context"
	"fmt"
	"os"

	"github.com/mdp/qrterminal"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	walog "go.mau.fi/whatsmeow/util/log"
	_ "modernc.org/sqlite"
)

// IncomingMessage is the part of a WhatsApp message the bot cares about.
type IncomingMessage struct {
	Chat     types.JID
	SenderID string
	PushName string
	Text     string
	FromMe   bool
}

// Service owns the whatsmeow client and its device store.
type Service struct {
	client         *whatsmeow.Client
	dbPath         string
	log            walog.Logger
	messageHandler func(ctx context.Context, msg IncomingMessage)
}

func NewService(dbPath string, logger walog.Logger) *Service {
	return &Service{
		dbPath: dbPath,
		log:    logger,
	}
}

// Initialize opens the device store and creates the client without
// connecting.
func (s *Service) Initialize(ctx context.Context) error {
	dbAddress := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", s.dbPath)
	container, err := sqlstore.New(ctx, "sqlite", dbAddress, s.log)
	if err != nil {
		return fmt.Errorf("failed to initialize whatsapp store: %w", err)
	}

	devices, err := container.GetAllDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}

	var device *store.Device
	if len(devices) > 0 {
		device = devices[0]
	} else {
		device = container.NewDevice()
	}

	s.client = whatsmeow.NewClient(device, s.log)
	s.registerEventHandlers()

	return nil
}

// Login connects an existing session, or starts pairing: by code when phone
// is set, by terminal QR otherwise.
func (s *Service) Login(ctx context.Context, phone string) error {
	if s.IsLoggedIn() {
		if err := s.Connect(); err != nil {
			return err
		}
		s.log.Infof("Client is already logged in.")
		return nil
	}

	if phone == "" {
		s.log.Infof("Not logged in. BOT_PHONE not set. Printing QR...")
		go s.PrintQR(ctx)
		return nil
	}

	if err := s.Connect(); err != nil {
		return fmt.Errorf("failed to connect for pairing: %w", err)
	}
	code, err := s.Pair(ctx, phone)
	if err != nil {
		return fmt.Errorf("failed to generate pair code: %w", err)
	}

	s.log.Infof("==================================================")
	s.log.Infof("PAIR CODE: %s", code)
	s.log.Infof("==================================================")
	s.log.Infof("Please verify this code on your WhatsApp (Linked Devices > Link with phone number)")
	return nil
}

func (s *Service) Connect() error {
	if s.client == nil {
		return fmt.Errorf("client not initialized")
	}
	if s.client.IsConnected() {
		return nil
	}
	return s.client.Connect()
}

func (s *Service) Disconnect() {
	if s.client != nil {
		s.client.Disconnect()
	}
}

func (s *Service) SetMessageHandler(handler func(ctx context.Context, msg IncomingMessage)) {
	s.messageHandler = handler
}

func (s *Service) registerEventHandlers() {
	s.client.AddEventHandler(func(evt interface{}) {
		switch v := evt.(type) {
		case *events.Message:
			if s.messageHandler == nil {
				return
			}
			msg := IncomingMessage{
				Chat:     v.Info.Chat,
				SenderID: v.Info.Sender.ToNonAD().User,
				PushName: v.Info.PushName,
				Text:     messageText(v.Message),
				FromMe:   v.Info.IsFromMe,
			}
			go s.messageHandler(context.Background(), msg)
		case *events.Connected:
			s.log.Infof("WhatsApp connected")
		case *events.LoggedOut:
			s.log.Warnf("WhatsApp session logged out, pair again to resume")
		}
	})
}

func messageText(m *waE2E.Message) string {
	if m == nil {
		return ""
	}
	if m.Conversation != nil {
		return *m.Conversation
	}
	if m.ExtendedTextMessage != nil && m.ExtendedTextMessage.Text != nil {
		return *m.ExtendedTextMessage.Text
	}
	return ""
}

func (s *Service) SendText(ctx context.Context, chat types.JID, text string) error {
	if s.client == nil {
		return fmt.Errorf("client not initialized")
	}
	_, err := s.client.SendMessage(ctx, chat, &waE2E.Message{Conversation: &text})
	return err
}

// SetTyping shows or clears the composing indicator in chat.
func (s *Service) SetTyping(ctx context.Context, chat types.JID, typing bool) error {
	state := types.ChatPresencePaused
	if typing {
		state = types.ChatPresenceComposing
	}
	return s.client.SendChatPresence(ctx, chat, state, types.ChatPresenceMediaText)
}

func (s *Service) IsLoggedIn() bool {
	return s.client != nil && s.client.Store.ID != nil
}

func (s *Service) Pair(ctx context.Context, phone string) (string, error) {
	if s.IsLoggedIn() {
		return "", fmt.Errorf("already logged in")
	}
	if !s.client.IsConnected() {
		return "", fmt.Errorf("client not connected")
	}

	return s.client.PairPhone(ctx, phone, true, whatsmeow.PairClientChrome, "Chrome (Linux)")
}

// PrintQR requests the QR channel before connecting and renders each code
// in the terminal until login completes.
func (s *Service) PrintQR(ctx context.Context) {
	if s.client.Store.ID != nil {
		return
	}

	qrChan, err := s.client.GetQRChannel(ctx)
	if err != nil {
		s.log.Errorf("Failed to get QR channel: %v", err)
		return
	}
	if err := s.client.Connect(); err != nil {
		s.log.Errorf("Failed to connect for QR: %v", err)
		return
	}

	for evt := range qrChan {
		if evt.Event == "code" {
			fmt.Println("QR Code:", evt.Code)
			qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
		} else {
			s.log.Infof("Login event: %s", evt.Event)
		}
	}
}
