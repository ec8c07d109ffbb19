package chat

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Rasak123/betting-predictor/pkg/predictor"
)

// Maximum characters a single chat message may carry before splitting.
const maxMessageLength = 4096

// FormatPrediction renders a prediction document into a human chat message.
// This is the presentation layer's only view of a prediction; everything it
// prints comes off the stable document, never the engine internals.
func FormatPrediction(doc *predictor.Document) string {
	if doc == nil {
		return "Could not analyze match. Please try again later."
	}

	matchDate := doc.Match.Date
	if parsed, err := time.Parse(time.RFC3339, matchDate); err == nil {
		matchDate = parsed.Format("Monday, 02 January 2006 - 15:04")
	}

	lines := []string{
		fmt.Sprintf("🏆 *%s (%s)*", orUnknown(doc.Match.League, "Unknown League"), orUnknown(doc.Match.Country, "Unknown Country")),
		fmt.Sprintf("⚽ *%s vs %s*", doc.Match.HomeTeam, doc.Match.AwayTeam),
		fmt.Sprintf("📅 %s", matchDate),
		"",
		"📊 *Match Prediction*",
		fmt.Sprintf("🏁 Outcome: *%s*", doc.Prediction),
		fmt.Sprintf("🔢 Score: *%s*", doc.Score.Display),
		fmt.Sprintf("💪 Confidence: %.1f%%", doc.Confidence),
		"",
		"📈 *Win Probabilities*",
		fmt.Sprintf("🏠 %s: %.1f%%", doc.Match.HomeTeam, doc.Probabilities.Home),
		fmt.Sprintf("🤝 Draw: %.1f%%", doc.Probabilities.Draw),
		fmt.Sprintf("🚌 %s: %.1f%%", doc.Match.AwayTeam, doc.Probabilities.Away),
	}

	if len(doc.OverUnder) > 0 {
		lines = append(lines, "", "📊 *Over/Under*")
		for _, key := range sortedThresholds(doc.OverUnder) {
			ou := doc.OverUnder[key]
			call := "Under"
			if ou.Prediction {
				call = "Over"
			}
			lines = append(lines, fmt.Sprintf("O/U %s: *%s* (%.1f%%)", key, call, ou.Probability))
		}
	}

	bttsCall := "No"
	if doc.BTTS.Prediction {
		bttsCall = "Yes"
	}
	lines = append(lines,
		"",
		"📊 *Both Teams To Score*",
		fmt.Sprintf("BTTS: *%s* (%.1f%%)", bttsCall, doc.BTTS.Probability),
		"",
		"📊 *First Half*",
		fmt.Sprintf("Result: *%s* (%.1f%%)", doc.FirstHalf.Prediction, firstHalfBest(doc)),
	)

	return strings.Join(lines, "\n")
}

// Split chunks a message so each piece fits the chat platform's limit.
// Cuts fall on a line boundary where one exists, and never inside a
// multi-byte rune; the emoji headers make raw byte slicing unsafe.
func Split(message string) []string {
	if len(message) <= maxMessageLength {
		return []string{message}
	}
	var chunks []string
	for len(message) > maxMessageLength {
		cut := maxMessageLength
		if nl := strings.LastIndexByte(message[:cut], '\n'); nl > 0 {
			cut = nl + 1
		} else {
			for cut > 0 && !utf8.RuneStart(message[cut]) {
				cut--
			}
		}
		chunks = append(chunks, message[:cut])
		message = message[cut:]
	}
	return append(chunks, message)
}

func sortedThresholds(ou map[string]predictor.OverUnderDoc) []string {
	keys := make([]string, 0, len(ou))
	for key := range ou {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return ou[keys[i]].Threshold < ou[keys[j]].Threshold
	})
	return keys
}

func firstHalfBest(doc *predictor.Document) float64 {
	best := doc.FirstHalf.Probabilities.Home
	if doc.FirstHalf.Probabilities.Draw > best {
		best = doc.FirstHalf.Probabilities.Draw
	}
	if doc.FirstHalf.Probabilities.Away > best {
		best = doc.FirstHalf.Probabilities.Away
	}
	return best
}

func orUnknown(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
