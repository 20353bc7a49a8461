package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/onnwee/stampbot/config"
	"github.com/onnwee/stampbot/store"
	"github.com/onnwee/stampbot/telemetry"
	"github.com/onnwee/stampbot/timeparse"
)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "timestamp",
		Description: "Convert natural language to a Discord timestamp",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "time_string",
			Description: "Natural language time (e.g., 'today 3pm', 'tomorrow', 'next friday')",
			Required:    true,
		}},
	},
	{
		Name:        "in",
		Description: "Generate a timestamp for a time in the future",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "Duration (e.g., '1 hour', '30 minutes', '2 hours 15 minutes')",
			Required:    true,
		}},
	},
	{
		Name:        "timezone",
		Description: "Set your timezone for timestamp commands",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "timezone",
			Description: "IANA timezone (e.g., 'America/New_York', 'Europe/London', 'Asia/Tokyo')",
			Required:    true,
		}},
	},
	{
		Name:        "formats",
		Description: "Show every timestamp style for a given time",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "time_string",
			Description: "Natural language time (e.g., 'today 3pm', 'tomorrow')",
			Required:    true,
		}},
	},
}

// Bot holds the Discord session and the injected collaborators.
type Bot struct {
	session  *discordgo.Session
	store    *store.TimezoneStore
	resolver *timeparse.Resolver
	guildID  string
	now      func() time.Time
	ready    atomic.Bool
}

// New builds the bot with its session configured but not yet connected.
// Slash commands need no privileged intents.
func New(cfg *config.Config, st *store.TimezoneStore) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		session:  session,
		store:    st,
		resolver: timeparse.NewResolver(timeparse.NewInterpreter()),
		guildID:  cfg.CommandGuildID,
		now:      time.Now,
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onDisconnect)
	session.AddHandler(b.onInteraction)
	return b, nil
}

// Start connects to the gateway and registers the slash commands. The
// session closes when ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord gateway connect: %w", err)
	}
	if err := b.registerCommands(); err != nil {
		_ = b.session.Close()
		return err
	}
	telemetry.SetStoredTimezones(b.store.Len())
	slog.Info("slash commands registered", slog.Int("count", len(commands)), slog.String("guild", b.guildID))

	go func() {
		<-ctx.Done()
		telemetry.SetGatewayConnected(false)
		if err := b.session.Close(); err != nil {
			slog.Error("discord session close failed", slog.Any("err", err))
		}
	}()
	return nil
}

// Ready reports whether the gateway session has received READY.
func (b *Bot) Ready() bool {
	return b.ready.Load()
}

// registerCommands syncs the command set. Guild-scoped registration (when
// COMMAND_GUILD_ID is set) shows up instantly; global registration can take
// up to an hour to propagate on Discord's side.
func (b *Bot) registerCommands() error {
	appID := b.session.State.User.ID
	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(appID, b.guildID, cmd); err != nil {
			return fmt.Errorf("register /%s: %w", cmd.Name, err)
		}
	}
	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.ready.Store(true)
	telemetry.SetGatewayConnected(true)
	slog.Info("logged in", slog.String("user", r.User.Username), slog.String("id", r.User.ID), slog.Int("guilds", len(r.Guilds)))
}

func (b *Bot) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	b.ready.Store(false)
	telemetry.SetGatewayConnected(false)
	slog.Warn("gateway disconnected")
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()

	ctx := telemetry.WithCorrelation(context.Background(), uuid.NewString())
	_, span := telemetry.StartSpan(ctx, "bot", "command."+data.Name, attribute.String("command", data.Name))
	defer span.End()
	log := telemetry.LoggerWithCorr(ctx)

	start := time.Now()
	res := b.dispatch(data, interactionUserID(i))
	telemetry.ObserveCommand(data.Name, time.Since(start), res.failed)
	if res.err != nil {
		telemetry.RecordError(span, res.err)
		log.Info("command answered with error", slog.String("command", data.Name), slog.Any("err", res.err))
	}

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: res.content},
	}
	if res.ephemeral {
		resp.Data.Flags = discordgo.MessageFlagsEphemeral
	}
	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		log.Error("interaction respond failed", slog.String("command", data.Name), slog.Any("err", err))
	}
}

// interactionUserID works in both guild channels (Member) and DMs (User).
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
