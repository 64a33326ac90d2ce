package store

import (
	"strings"

	"github.com/dmitrijs2005/admindash/internal/client/models"
)

// Filter returns the records that match c, in their original order. It
// never modifies records. With no search term and both categories at "all"
// (or empty) the input slice itself is returned.
func Filter(records []models.UserRecord, c models.FilterCriteria) []models.UserRecord {
	term := strings.ToLower(c.SearchTerm)
	status := string(c.Status)
	role := string(c.Role)
	anyStatus := status == "" || status == models.FilterAll
	anyRole := role == "" || role == models.FilterAll

	if term == "" && anyStatus && anyRole {
		return records
	}

	out := make([]models.UserRecord, 0, len(records))
	for _, r := range records {
		if term != "" &&
			!strings.Contains(strings.ToLower(r.FirstName+" "+r.LastName), term) &&
			!strings.Contains(strings.ToLower(r.Email), term) {
			continue
		}
		if !anyStatus && string(r.Status) != status {
			continue
		}
		if !anyRole && string(r.Role) != role {
			continue
		}
		out = append(out, r)
	}
	return out
}
