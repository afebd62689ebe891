package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// PrintSeedResult writes the seeded demo data in a readable table
func PrintSeedResult(w io.Writer, result *SeedResult) {
	if result == nil {
		return
	}

	border := strings.Repeat("=", 80)
	fmt.Fprintf(w, "\n%s\nDEMO DATA LOADED\n%s\n", border, border)

	fmt.Fprintln(w, "\nRoles:")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range result.Roles {
		fmt.Fprintf(w, "  %-12s %-6s %s\n", r.ID, r.Rolename, r.Description)
	}

	fmt.Fprintln(w, "\nUsers:")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, u := range result.Users {
		roleIDs := make([]string, 0, len(u.Roles))
		for _, r := range u.Roles {
			roleIDs = append(roleIDs, r.ID)
		}
		fmt.Fprintf(w, "  %-8s %-20s [%s]\n", u.UserID, u.Name, strings.Join(roleIDs, ", "))
	}

	fmt.Fprintf(w, "%s\n\n", border)
}

// LogSeedSummary logs a concise summary using slog
func LogSeedSummary(result *SeedResult) {
	if result == nil {
		return
	}

	slog.Info("Demo data summary",
		"roles", len(result.Roles),
		"users", len(result.Users),
		"users_with_roles", countUsersWithRoles(result),
	)
}

func countUsersWithRoles(result *SeedResult) int {
	count := 0
	for _, u := range result.Users {
		if len(u.Roles) > 0 {
			count++
		}
	}
	return count
}
