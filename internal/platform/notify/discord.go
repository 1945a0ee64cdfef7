// Package notify carries outbound notifications: a Discord channel sink for
// production and a log sink for everything else. Delivery is best-effort by
// contract; callers log failures and move on.
package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordNotifier posts notifications to a fixed Discord channel. The
// recipient is included in the message body because channel posts have no
// per-recipient addressing.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(botToken string, channelID string) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordNotifier{session: session, channelID: channelID}, nil
}

func (n *DiscordNotifier) Send(ctx context.Context, recipient string, subject string, body string) error {
	content := fmt.Sprintf("**%s**\nTo: %s\n%s", subject, recipient, body)
	_, err := n.session.ChannelMessageSend(n.channelID, content)
	if err != nil {
		return fmt.Errorf("discord channel send: %w", err)
	}
	return nil
}

func (n *DiscordNotifier) Close() error {
	return n.session.Close()
}
