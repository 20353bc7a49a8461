package bot

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/onnwee/stampbot/store"
	"github.com/onnwee/stampbot/timeparse"
)

// fakeInterp returns a canned instant regardless of the phrase.
type fakeInterp struct {
	t  time.Time
	ok bool
}

func (f fakeInterp) Interpret(string, time.Time) (time.Time, bool, error) {
	return f.t, f.ok, nil
}

func testBot(t *testing.T, interp timeparse.Interpreter) *Bot {
	t.Helper()
	return &Bot{
		store:    store.Open(filepath.Join(t.TempDir(), "user_timezones.json")),
		resolver: timeparse.NewResolver(interp),
		now:      func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func TestHandleTimestamp(t *testing.T) {
	at := time.Unix(1704110400, 0).UTC()
	b := testBot(t, fakeInterp{t: at, ok: true})

	got, err := b.handleTimestamp("user1", "today 3pm")
	if err != nil {
		t.Fatalf("handleTimestamp error: %v", err)
	}
	want := "📅 <t:1704110400:F> (**today 3pm**)"
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestHandleTimestampUnparseable(t *testing.T) {
	b := testBot(t, fakeInterp{ok: false})
	if _, err := b.handleTimestamp("user1", "xyz"); !errors.Is(err, timeparse.ErrUnparseableTime) {
		t.Errorf("error = %v, want ErrUnparseableTime", err)
	}
}

func TestHandleIn(t *testing.T) {
	b := testBot(t, fakeInterp{})
	got, err := b.handleIn("2 hours 15 minutes")
	if err != nil {
		t.Fatalf("handleIn error: %v", err)
	}
	epoch := b.now().Add(2*time.Hour + 15*time.Minute).Unix()
	want := fmt.Sprintf("⏱️ <t:%d:R> (in **2 hours 15 minutes**)", epoch)
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestHandleTimezone(t *testing.T) {
	b := testBot(t, fakeInterp{})
	got, err := b.handleTimezone("user1", "Europe/London")
	if err != nil {
		t.Fatalf("handleTimezone error: %v", err)
	}
	if !strings.Contains(got, "✅") || !strings.Contains(got, "Europe/London") {
		t.Errorf("reply = %q, want confirmation naming the zone", got)
	}
	if zone := b.store.Get("user1"); zone != "Europe/London" {
		t.Errorf("stored zone = %q, want Europe/London", zone)
	}

	if _, err := b.handleTimezone("user1", "Not/AZone"); !errors.Is(err, timeparse.ErrInvalidTimezone) {
		t.Errorf("error = %v, want ErrInvalidTimezone", err)
	}
}

func TestHandleTimezoneConfirmsDespiteWriteFailure(t *testing.T) {
	b := testBot(t, fakeInterp{})
	b.store = store.Open(filepath.Join(t.TempDir(), "missing", "user_timezones.json"))

	got, err := b.handleTimezone("user1", "Asia/Tokyo")
	if err != nil {
		t.Fatalf("write failure must not surface to the requester: %v", err)
	}
	if !strings.Contains(got, "Asia/Tokyo") {
		t.Errorf("reply = %q, want confirmation", got)
	}
	if zone := b.store.Get("user1"); zone != "Asia/Tokyo" {
		t.Errorf("in-memory zone = %q, want Asia/Tokyo", zone)
	}
}

func TestHandleFormats(t *testing.T) {
	at := time.Unix(1704110400, 0).UTC()
	b := testBot(t, fakeInterp{t: at, ok: true})

	got, err := b.handleFormats("user1", "tomorrow")
	if err != nil {
		t.Fatalf("handleFormats error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 8 { // header + 7 styles
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), got)
	}
	for _, code := range []string{":t>", ":T>", ":d>", ":D>", ":f>", ":F>", ":R>"} {
		if !strings.Contains(got, "<t:1704110400"+code) {
			t.Errorf("missing style %q in reply:\n%s", code, got)
		}
	}
}

func TestDispatchConvertsErrors(t *testing.T) {
	b := testBot(t, fakeInterp{ok: false})
	data := discordgo.ApplicationCommandInteractionData{
		Name:    "timestamp",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{stringOption("time_string", "xyz not a time")},
	}
	res := b.dispatch(data, "user1")
	if !res.failed || !res.ephemeral {
		t.Errorf("error result should be failed+ephemeral, got %+v", res)
	}
	if !strings.HasPrefix(res.content, "❌") {
		t.Errorf("error reply should start with ❌: %q", res.content)
	}
}

func TestDispatchSuccessVisibility(t *testing.T) {
	at := time.Unix(1704110400, 0).UTC()
	b := testBot(t, fakeInterp{t: at, ok: true})

	public := discordgo.ApplicationCommandInteractionData{
		Name:    "timestamp",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{stringOption("time_string", "tomorrow")},
	}
	if res := b.dispatch(public, "u"); res.ephemeral || res.failed {
		t.Errorf("/timestamp success should be public, got %+v", res)
	}

	private := discordgo.ApplicationCommandInteractionData{
		Name:    "timezone",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{stringOption("timezone", "UTC")},
	}
	if res := b.dispatch(private, "u"); !res.ephemeral || res.failed {
		t.Errorf("/timezone success should be ephemeral, got %+v", res)
	}
}

func TestErrorReplyHints(t *testing.T) {
	cases := []struct {
		err  error
		hint string
	}{
		{fmt.Errorf("%w: %q", timeparse.ErrInvalidTimezone, "Foo/Bar"), "tz_database_time_zones"},
		{fmt.Errorf("%w: %q", timeparse.ErrUnparseableDuration, "soon"), "'2h 15m'"},
		{fmt.Errorf("%w: %q", timeparse.ErrUnparseableTime, "???"), "/timezone"},
		{errors.New("boom"), "unexpected"},
	}
	for _, c := range cases {
		got := errorReply(c.err)
		if !strings.HasPrefix(got, "❌") {
			t.Errorf("errorReply(%v) should start with ❌: %q", c.err, got)
		}
		if !strings.Contains(got, c.hint) {
			t.Errorf("errorReply(%v) = %q, want hint %q", c.err, got, c.hint)
		}
	}
}

func TestInteractionUserID(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "42"}},
	}}
	if got := interactionUserID(guild); got != "42" {
		t.Errorf("guild user id = %q, want 42", got)
	}
	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "7"},
	}}
	if got := interactionUserID(dm); got != "7" {
		t.Errorf("dm user id = %q, want 7", got)
	}
}
