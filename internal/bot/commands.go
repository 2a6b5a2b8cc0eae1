package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/config"
	"github.com/bwmarrin/discordgo"
)

const ServerCommandName = "server"

var minPort = 1.0

var ServerCommand = discordgo.ApplicationCommand{
	Name:        ServerCommandName,
	Description: "Show the status of a Day of Defeat: Source server",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "ip",
			Description: "Server address (defaults to the configured server)",
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "port",
			Description: "Server query port (defaults to the configured port)",
			MinValue:    &minPort,
			MaxValue:    65535,
		},
	},
}

func Commands() []*discordgo.ApplicationCommand {
	cmd := ServerCommand
	return []*discordgo.ApplicationCommand{&cmd}
}

// RegisterCommands replaces the commands of the application, in a guild if
// guildId is set or globally otherwise.
func RegisterCommands(s *discordgo.Session, appId, guildId string) error {
	if appId == "" {
		return fmt.Errorf("missing application id")
	}

	_, err := s.ApplicationCommandBulkOverwrite(appId, guildId, Commands())
	if err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}

	return nil
}

func (bot *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()

	switch data.Name {
	case ServerCommandName:
		bot.handleServer(s, i, data.Options)

	default:
		bot.log.Debug(1, "ignoring unknown command %q", data.Name)
	}
}

func (bot *Bot) handleServer(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	// Queries can take several seconds, longer than the delay allowed for
	// a direct response.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		bot.log.Error("cannot acknowledge /%s: %v", ServerCommandName, err)
		return
	}

	host, port := serverTarget(opts, bot.cfg.DefaultServer)

	bot.log.Debug(1, "/%s %s:%d", ServerCommandName, host, port)

	report := bot.reporter.Report(host, port)
	embed := Embed(report.Message(time.Now()))

	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		bot.log.Error("cannot answer /%s: %v", ServerCommandName, err)
	}
}

// serverTarget returns the address selected by the command options, falling
// back to the configured server for missing options.
func serverTarget(opts []*discordgo.ApplicationCommandInteractionDataOption, defaults config.ServerCfg) (string, int) {
	host, port := defaults.Address()

	for _, opt := range opts {
		switch opt.Name {
		case "ip":
			if value := strings.TrimSpace(opt.StringValue()); value != "" {
				host = value
			}

		case "port":
			if value := opt.IntValue(); value >= 1 && value <= 65535 {
				port = int(value)
			}
		}
	}

	return host, port
}
