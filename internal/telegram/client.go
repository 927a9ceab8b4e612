// Package telegram sends complaint lifecycle notifications to a
// Telegram chat. Notifications are strictly one-way and best-effort:
// the wizard never waits on them and never sees their failures.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"civiclens/internal/complaint"
	"civiclens/internal/config"
)

// baseURL is a variable so tests can point the client at a local
// server.
var baseURL = "https://api.telegram.org"

// Client is a Telegram bot client. A nil *Client is valid and skips
// every send, so call sites never branch on configuration.
type Client struct {
	BotToken  string
	ChatID    string
	DebugMode bool
}

// Message is the sendMessage request payload.
type Message struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// NewClient creates a Telegram client from configuration.
//
// Returns nil when the bot token or chat id is missing; the nil
// client disables notifications without disabling the app.
func NewClient(cfg *config.Config) *Client {
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == "" {
		log.Println("⚠️  TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set. Telegram notifications disabled.")
		if cfg.TelegramBotToken == "" {
			log.Println("   → Missing: TELEGRAM_BOT_TOKEN")
		}
		if cfg.TelegramChatID == "" {
			log.Println("   → Missing: TELEGRAM_CHAT_ID")
		}
		return nil
	}

	log.Println("✓ Telegram configured successfully")

	if cfg.DebugMode {
		log.Println("🐛 DEBUG MODE ENABLED - Telegram API calls will be simulated")
	}

	return &Client{
		BotToken:  cfg.TelegramBotToken,
		ChatID:    cfg.TelegramChatID,
		DebugMode: cfg.DebugMode,
	}
}

// doRequest handles the common logic for Telegram API calls: JSON
// marshaling, POST, error response parsing.
func (c *Client) doRequest(method string, payload interface{}) (map[string]interface{}, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/bot%s/%s", baseURL, c.BotToken, method)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(apiURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if ok, exists := result["ok"].(bool); !exists || !ok {
		return nil, fmt.Errorf("Telegram API error: %v", result)
	}

	return result, nil
}

// send posts a formatted message, honoring debug mode and the nil
// client.
func (c *Client) send(text string) {
	if c == nil {
		return
	}
	if c.DebugMode {
		log.Println("   🐛 [SIMULATED] Telegram message:\n" + text)
		return
	}

	msg := Message{
		ChatID:                c.ChatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	}
	if _, err := c.doRequest("sendMessage", msg); err != nil {
		log.Printf("⚠️  Failed to send Telegram notification: %v", err)
		return
	}
	log.Println("   ✓ Notification sent to Telegram")
}

// NotifyNewRecord announces a newly generated complaint.
func (c *Client) NotifyNewRecord(rec complaint.Record) {
	if c == nil {
		return
	}

	log.Println("   📨 Sending new complaint notification to Telegram...")

	location := rec.LocationDetails.Area
	if rec.LocationDetails.City != "" {
		location += ", " + rec.LocationDetails.City
	}

	c.send(fmt.Sprintf(
		"📋 <b>New Complaint</b>\n\n"+
			"🏷 %s\n"+
			"📍 %s\n"+
			"📅 %s\n\n"+
			"💬 <b>Details:</b>\n%s",
		rec.Type,
		location,
		rec.DateCreated,
		rec.Description,
	))
}

// NotifyStatusChange announces a record status update.
func (c *Client) NotifyStatusChange(rec complaint.Record, status complaint.Status) {
	if c == nil {
		return
	}

	log.Println("   📨 Sending status change notification to Telegram...")

	c.send(fmt.Sprintf(
		"🔄 <b>Status Update</b>\n\n"+
			"🏷 %s\n"+
			"📍 %s\n"+
			"➡️ <b>%s</b>\n"+
			"🕐 %s",
		rec.Type,
		rec.LocationDetails.City,
		status,
		time.Now().Format("02 Jan 2006, 03:04 PM"),
	))
}
