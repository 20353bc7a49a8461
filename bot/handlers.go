package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/onnwee/stampbot/telemetry"
	"github.com/onnwee/stampbot/timeparse"
	"github.com/onnwee/stampbot/timestamp"
)

// result is a command outcome ready to send: error kinds have already been
// converted to user-facing text here, nowhere else.
type result struct {
	content   string
	ephemeral bool
	failed    bool
	err       error
}

func (b *Bot) dispatch(data discordgo.ApplicationCommandInteractionData, userID string) result {
	var (
		content   string
		ephemeral bool
		err       error
	)
	switch data.Name {
	case "timestamp":
		content, err = b.handleTimestamp(userID, optionValue(data, "time_string"))
	case "in":
		content, err = b.handleIn(optionValue(data, "duration"))
	case "timezone":
		content, err = b.handleTimezone(userID, optionValue(data, "timezone"))
		ephemeral = true
	case "formats":
		content, err = b.handleFormats(userID, optionValue(data, "time_string"))
		ephemeral = true
	default:
		err = fmt.Errorf("unknown command %q", data.Name)
	}
	if err != nil {
		return result{content: errorReply(err), ephemeral: true, failed: true, err: err}
	}
	return result{content: content, ephemeral: ephemeral}
}

func (b *Bot) handleTimestamp(userID, text string) (string, error) {
	t, err := b.resolver.Resolve(text, b.store.Get(userID))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("📅 %s (**%s**)", timestamp.Format(t, timestamp.DefaultStyle), text), nil
}

func (b *Bot) handleIn(text string) (string, error) {
	t, err := timeparse.DurationFrom(b.now(), text)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("⏱️ %s (in **%s**)", timestamp.Format(t, timestamp.Relative), text), nil
}

func (b *Bot) handleTimezone(userID, zone string) (string, error) {
	err := b.store.Set(userID, zone)
	switch {
	case errors.Is(err, timeparse.ErrInvalidTimezone):
		return "", err
	case err != nil:
		// On-disk copy failed to update; the in-memory preference is live
		// for this process, so the user still gets a confirmation.
		slog.Error("timezone save failed", slog.String("user", userID), slog.Any("err", err))
	}
	telemetry.SetStoredTimezones(b.store.Len())
	return fmt.Sprintf("✅ Your timezone has been set to **%s**", zone), nil
}

func (b *Bot) handleFormats(userID, text string) (string, error) {
	t, err := b.resolver.Resolve(text, b.store.Get(userID))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Timestamp styles for **%s**:\n", text)
	for _, ex := range timestamp.AllFormatExamples(t) {
		// Rendered markup plus a copyable literal.
		fmt.Fprintf(&sb, "**%s** (`%c`): %s `%s`\n", ex.Name, ex.Style, ex.Markup, ex.Markup)
	}
	return sb.String(), nil
}

// errorReply maps an error kind to the requester-visible message.
func errorReply(err error) string {
	switch {
	case errors.Is(err, timeparse.ErrInvalidTimezone):
		return fmt.Sprintf("❌ Error: %s\n\n"+
			"Please use IANA timezone format (e.g., 'America/New_York', 'Europe/London', 'Asia/Tokyo')\n"+
			"Find your timezone at: <https://en.wikipedia.org/wiki/List_of_tz_database_time_zones>", err)
	case errors.Is(err, timeparse.ErrUnparseableDuration):
		return fmt.Sprintf("❌ Error: %s\n\nExample formats: '1 hour', '30 minutes', '2h 15m'", err)
	case errors.Is(err, timeparse.ErrUnparseableTime):
		return fmt.Sprintf("❌ Error: %s\n\nPlease try a different format or set your timezone with /timezone", err)
	default:
		return "❌ An unexpected error occurred, please try again"
	}
}

func optionValue(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}
