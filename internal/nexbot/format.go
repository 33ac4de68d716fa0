package nexbot

import (
	"strings"
	"time"

	"github.com/amitanshusahu/NexSync/db/models"
)

var taskAcks = []string{"Hmm Hmm..", "Sure..", "Okay..", "Alright..", "Got it..", "Umm..Hmm"}

const (
	noUpdatesReply     = "🟡 No updates for today."
	uncategorizedLabel = "🗂️ Uncategorized"
)

// DayWindow returns the inclusive bounds of the calendar day containing now,
// in now's location.
func DayWindow(now time.Time) (from, to time.Time) {
	from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to = from.Add(24*time.Hour - time.Nanosecond)
	return from, to
}

// FormatUpdates renders the completed-today summary: tasks grouped by project
// name in first-seen order of the (updated_at descending) input, descriptions
// listed per group. An empty input yields the literal no-updates line, never
// an empty grouped list.
//
// Task descriptions and project names are interpolated into Markdown without
// escaping, matching the behavior this flow has always had; the transport
// falls back to escaped or plain sends when the platform rejects the markup.
func FormatUpdates(tasks []models.Task) string {
	if len(tasks) == 0 {
		return noUpdatesReply
	}

	order := make([]string, 0, 4)
	grouped := make(map[string][]string, 4)
	for _, task := range tasks {
		name := uncategorizedLabel
		if task.Project != nil && task.Project.Name != "" {
			name = task.Project.Name
		}
		if _, seen := grouped[name]; !seen {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], task.Description)
	}

	var b strings.Builder
	b.WriteString("✅ *Completed Tasks Today*\n")
	for _, name := range order {
		b.WriteString("\n*" + name + "*\n")
		for _, desc := range grouped[name] {
			b.WriteString("  • " + desc + "\n")
		}
	}
	return b.String()
}

func startText() string {
	return "Nexbot is live! Use /help to see available commands."
}

func helpText() string {
	commands := []struct {
		command     string
		description string
	}{
		{
			command:     "/start",
			description: "🚀 Check the bot's status to ensure it's up and running.",
		},
		{
			command:     "/help",
			description: "ℹ️ Display this help message with a list of all available commands.",
		},
		{
			command: "/task",
			description: "📝 Create a new task.\n" +
				"Format: `/task #projectxyz P1 Task description`\n" +
				"• `#projectxyz`: Optional project tag (e.g., #tgaf).\n" +
				"• `P1`, `P2`, `P3`, `UI`, `UX`, `BUG`: Optional priority (use uppercase for priority).\n" +
				"Example: `/task #tgaf P1 Fix login button`",
		},
		{
			command:     "/update",
			description: "✅ View all tasks completed today.",
		},
		{
			command: "/note",
			description: "📋 Add a note to a project.\n" +
				"Format: `/note #projectxyz Note content`\n" +
				"• `#projectxyz`: Optional project tag.\n" +
				"Example: `/note #tgaf Discuss UI improvements`",
		},
		{
			command: "/auth",
			description: "🔑 Store an authorization key for a project.\n" +
				"Format: `/auth #projectxyz Key description`\n" +
				"• `#projectxyz`: Optional project tag.\n" +
				"Example: `/auth #tgaf API access for frontend`\n" +
				"What to send?: `email, password, api key, backup key, etc`",
		},
		{
			command: "/login",
			description: "🔐 Retrieve your login credentials.\n" +
				"Note: Start a private chat with the bot using `/start` to receive credentials securely via private message.",
		},
	}

	var b strings.Builder
	b.WriteString("📖 **Available Commands**\n")
	for _, cmd := range commands {
		b.WriteString("\n" + cmd.command + " " + cmd.description + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
