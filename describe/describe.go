// Package describe builds the aggregated description for an integration
// pull request. It is pure: the same sub-PRs always produce the same text.
package describe

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/randalmurphal/mergetrain/pr"
)

// NoTicketPlaceholder is emitted for PRs whose title and body reference no
// ticket.
const NoTicketPlaceholder = "N/A"

// ticketRegex matches ticket identifiers like ENI-1542 or PROJ-9.
var ticketRegex = regexp.MustCompile(`[A-Z]+-[0-9]+`)

// Build renders the aggregated description for the given sub-PRs.
//
// PRs are grouped by author login, groups ordered by login ascending. Within
// a group the PRs keep their relative order from the input list, which is
// the configured merge order. Each entry lists the PR number and the
// tickets extracted from its title and body.
func Build(prs []*pr.PullRequest) string {
	groups := make(map[string][]*pr.PullRequest)
	for _, p := range prs {
		groups[p.Author.Login] = append(groups[p.Author.Login], p)
	}

	logins := make([]string, 0, len(groups))
	for login := range groups {
		logins = append(logins, login)
	}
	sort.Strings(logins)

	var b strings.Builder
	for i, login := range logins {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("### ")
		b.WriteString(login)
		b.WriteString("\n")

		for _, p := range groups[login] {
			b.WriteString("- #")
			b.WriteString(strconv.Itoa(p.Number))
			b.WriteString(": ")
			b.WriteString(ticketList(p))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// ticketList formats the tickets of one PR, or the placeholder.
func ticketList(p *pr.PullRequest) string {
	tickets := ExtractTickets(p.Title, p.Body)
	if len(tickets) == 0 {
		return NoTicketPlaceholder
	}
	return strings.Join(tickets, ", ")
}

// ExtractTickets returns the distinct ticket identifiers found in title and
// body, in first-seen order scanning title first.
func ExtractTickets(title, body string) []string {
	var tickets []string
	seen := make(map[string]bool)

	for _, text := range []string{title, body} {
		for _, match := range ticketRegex.FindAllString(text, -1) {
			if !seen[match] {
				seen[match] = true
				tickets = append(tickets, match)
			}
		}
	}

	return tickets
}
