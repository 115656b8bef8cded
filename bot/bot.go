// Package bot wires the phrase tracker to the Telegram Bot API.
package bot

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/yoanbernabeu/phrasebot/config"
	"github.com/yoanbernabeu/phrasebot/tracker"
)

// Bot runs the Telegram transport (long polling) and relays events to
// the Router. Telegram owns connection lifecycle and command parsing;
// nothing below the router ever sees protocol frames.
type Bot struct {
	tb     *tele.Bot
	router *Router
}

// New connects to the Telegram Bot API and registers all handlers.
func New(cfg *config.Config, router *Router) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: time.Duration(cfg.Telegram.PollTimeout) * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}

	b := &Bot{tb: tb, router: router}
	b.registerHandlers()
	return b, nil
}

func (b *Bot) registerHandlers() {
	reply := func(fn func(chatID string) string) tele.HandlerFunc {
		return func(c tele.Context) error {
			return c.Send(fn(chatKey(c)))
		}
	}
	withPayload := func(fn func(chatID, payload string) string) tele.HandlerFunc {
		return func(c tele.Context) error {
			return c.Send(fn(chatKey(c), c.Message().Payload))
		}
	}

	b.tb.Handle("/start", reply(b.router.Start))
	b.tb.Handle("/help", reply(b.router.Help))
	b.tb.Handle("/add", withPayload(b.router.Add))
	b.tb.Handle("/remove", withPayload(b.router.Remove))
	b.tb.Handle("/list", reply(b.router.List))
	b.tb.Handle("/stats", reply(b.router.Stats))
	b.tb.Handle("/track", reply(b.router.Track))
	b.tb.Handle("/untrack", reply(b.router.Untrack))
	b.tb.Handle(tele.OnText, func(c tele.Context) error {
		b.router.Message(chatKey(c), c.Text())
		return nil
	})
}

func chatKey(c tele.Context) string {
	return tracker.ChatKey(c.Chat().ID)
}

// Start begins long polling and blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.tb.Stop()
	}()
	b.tb.Start()
	return nil
}
