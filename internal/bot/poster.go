package bot

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/status"
	"github.com/bwmarrin/discordgo"
)

// ErrNotFound is returned by Poster methods when the channel or the message
// does not exist anymore (or cannot be seen by the bot).
var ErrNotFound = errors.New("not found")

// Poster is the part of the chat platform used by the updater.
type Poster interface {
	Channel(channelId string) error
	Message(channelId, messageId string) error
	Send(channelId string, msg status.Message) (string, error)
	Edit(channelId, messageId string, msg status.Message) error
}

type sessionPoster struct {
	session *discordgo.Session
}

func (p *sessionPoster) Channel(channelId string) error {
	if _, err := p.session.Channel(channelId); err != nil {
		return restError(err)
	}

	return nil
}

func (p *sessionPoster) Message(channelId, messageId string) error {
	if _, err := p.session.ChannelMessage(channelId, messageId); err != nil {
		return restError(err)
	}

	return nil
}

func (p *sessionPoster) Send(channelId string, msg status.Message) (string, error) {
	sent, err := p.session.ChannelMessageSendEmbed(channelId, Embed(msg))
	if err != nil {
		return "", restError(err)
	}

	return sent.ID, nil
}

func (p *sessionPoster) Edit(channelId, messageId string, msg status.Message) error {
	_, err := p.session.ChannelMessageEditEmbed(channelId, messageId, Embed(msg))
	if err != nil {
		return restError(err)
	}

	return nil
}

// restError maps "unknown channel/message" API errors to ErrNotFound.
func restError(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}

	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}

	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return err
}

// Embed converts a presented status to a Discord embed.
func Embed(msg status.Message) *discordgo.MessageEmbed {
	embed := discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       msg.Color,
	}

	for _, f := range msg.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	if msg.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: msg.Footer}
	}

	if !msg.Timestamp.IsZero() {
		embed.Timestamp = msg.Timestamp.UTC().Format(time.RFC3339)
	}

	return &embed
}
