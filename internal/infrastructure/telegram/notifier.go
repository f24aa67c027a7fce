package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robcarv/news-colletector/internal/domain"
	"github.com/robcarv/news-colletector/internal/ports"
	"github.com/robcarv/news-colletector/internal/textutil"
)

const (
	apiBase          = "https://api.telegram.org"
	maxMessageLength = 4096
)

// Notifier delivers one narrated item to a Telegram chat: a MarkdownV2
// message followed by the audio file.
type Notifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  apiBase,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// NotifyItem posts the formatted message and then uploads the narration.
// A failure at either step is returned so the caller can log it, but the
// caller never fails the item over it.
func (n *Notifier) NotifyItem(ctx context.Context, item domain.NewsItem, summary, audioPath string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	if err := n.sendMessage(ctx, formatMessage(item, summary)); err != nil {
		return err
	}

	return n.sendAudio(ctx, item.Title, audioPath)
}

func (n *Notifier) sendMessage(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "MarkdownV2")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram sendMessage %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}

func (n *Notifier) sendAudio(ctx context.Context, title, audioPath string) error {
	file, err := os.Open(audioPath)
	if err != nil {
		return fmt.Errorf("open audio %s: %w", audioPath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("chat_id", n.chatID); err != nil {
		return fmt.Errorf("write chat_id: %w", err)
	}
	if err := writer.WriteField("title", title); err != nil {
		return fmt.Errorf("write title: %w", err)
	}

	part, err := writer.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendAudio", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram sendAudio %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}

func formatMessage(item domain.NewsItem, summary string) string {
	message := fmt.Sprintf("*%s*\n\n%s\n\nFonte: [%s](%s)",
		textutil.EscapeMarkdown(item.Title),
		textutil.EscapeMarkdown(summary),
		textutil.EscapeMarkdown(item.Source),
		item.Link,
	)

	if len(message) > maxMessageLength {
		message = message[:maxMessageLength-3] + "..."
	}
	return message
}
