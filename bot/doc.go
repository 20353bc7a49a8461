// Package bot owns the Discord surface: the gateway session, slash-command
// registration, and the command handlers.
//
// Four commands are registered at startup:
//   - /timestamp <time_string>: natural language ("today 3pm", "next friday")
//     to <t:EPOCH:F> markup, interpreted in the caller's stored timezone.
//   - /in <duration>: relative durations ("2 hours 15 minutes") to
//     <t:EPOCH:R> markup.
//   - /timezone <timezone>: stores the caller's IANA timezone preference.
//   - /formats <time_string>: lists every timestamp style for one instant.
//
// The handlers are the single boundary where parser and store errors become
// user-facing replies; user-triggered failures answer with an ephemeral ❌
// message and never take the process down.
package bot
