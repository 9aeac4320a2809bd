// Package telegram runs a question answering bot over the knowledge base.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/edurag/knowledge-backend/internal/config"
	"github.com/edurag/knowledge-backend/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

const (
	msgWelcome = "こんにちは！教育コンテンツに関する質問に答えるボットです。\n質問をそのまま送ってください。\n/category でコーパス（BtoB / BtoC）を切り替えられます。"
	msgHelp    = "使い方:\n- 質問を送ると、ナレッジベースを検索して回答します。\n- /category BtoB または /category BtoC でコーパスを切り替えます。\n- /start で最初からやり直します。"
	msgError   = "申し訳ございません。エラーが発生しました。もう一度お試しください。"
)

// ChatUsecase answers questions for the bot.
type ChatUsecase interface {
	Ask(ctx context.Context, question string, category entity.Category, maxResults int) (*entity.Answer, error)
}

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

type bot struct {
	api    *tgbotapi.BotAPI
	cfg    *config.TelegramConfig
	chatUC ChatUsecase
	logger *zap.Logger

	mu       sync.RWMutex
	category entity.Category

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(cfg *config.TelegramConfig, chatUC ChatUsecase, logger *zap.Logger) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return &bot{
		api:      api,
		cfg:      cfg,
		chatUC:   chatUC,
		logger:   logger,
		category: entity.CategoryBtoB,
		stopChan: make(chan struct{}),
	}, nil
}

// Start starts the bot
func (b *bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	updates := b.api.GetUpdatesChan(u)
	ctx = ctxzap.ToContext(ctx, b.logger)

	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return nil
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return nil
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				defer func() {
					if r := recover(); r != nil {
						b.logger.Error("panic in message handler", zap.Any("panic", r))
						b.sendText(msg.Chat.ID, msgError)
					}
				}()
				b.handleMessage(ctx, msg)
			}(update.Message)
		}
	}
}

// Stop stops the bot gracefully with timeout
func (b *bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed")
		return fmt.Errorf("shutdown timeout exceeded")
	}

	return nil
}

func (b *bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	question := strings.TrimSpace(message.Text)
	if question == "" {
		return
	}

	ctxzap.Info(ctx, "question received",
		zap.Int64("user_id", message.From.ID),
		zap.Int("length", len([]rune(question))),
	)

	answer, err := b.chatUC.Ask(ctx, question, b.currentCategory(), 0)
	if err != nil {
		ctxzap.Error(ctx, "failed to answer question", zap.Error(err))
		b.sendText(message.Chat.ID, msgError)
		return
	}

	b.sendText(message.Chat.ID, renderAnswer(answer))
}

func (b *bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()

	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("user_id", message.From.ID),
	)

	switch command {
	case "start":
		b.sendText(message.Chat.ID, msgWelcome)
	case "help":
		b.sendText(message.Chat.ID, msgHelp)
	case "category":
		b.handleCategoryCommand(message)
	default:
		b.sendText(message.Chat.ID, "不明なコマンドです。/help をご覧ください。")
	}
}

func (b *bot) handleCategoryCommand(message *tgbotapi.Message) {
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		b.sendText(message.Chat.ID, fmt.Sprintf("現在のカテゴリ: %s\n/category BtoB または /category BtoC で切り替えます。", b.currentCategory()))
		return
	}

	category := entity.Category(arg)
	if err := category.Validate(); err != nil {
		b.sendText(message.Chat.ID, "カテゴリは BtoB か BtoC を指定してください。")
		return
	}

	b.mu.Lock()
	b.category = category
	b.mu.Unlock()

	b.sendText(message.Chat.ID, fmt.Sprintf("カテゴリを %s に切り替えました。", category))
}

func (b *bot) currentCategory() entity.Category {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.category
}

func (b *bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// renderAnswer formats the answer with a compact source footer.
func renderAnswer(answer *entity.Answer) string {
	if !answer.HasKnowledge || len(answer.Sources) == 0 {
		return answer.Text
	}

	var sb strings.Builder
	sb.WriteString(answer.Text)
	sb.WriteString("\n\n参照元:\n")
	for i, source := range answer.Sources {
		fmt.Fprintf(&sb, "%d. %s / %s（類似度 %.0f%%）\n", i+1, source.SheetName, source.Section, source.Similarity*100)
	}
	return strings.TrimRight(sb.String(), "\n")
}
