package models

import (
	"fmt"
	"strings"
)

// FilterAll disables a categorical filter.
const FilterAll = "all"

type StatusFilter string

type RoleFilter string

// FilterCriteria is the presentation-held search and filter input.
// The zero value is normalised to "all" by the filter engine.
type FilterCriteria struct {
	SearchTerm string
	Status     StatusFilter
	Role       RoleFilter
}

// NoFilter matches every record.
func NoFilter() FilterCriteria {
	return FilterCriteria{Status: FilterAll, Role: FilterAll}
}

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case FilterAll, string(StatusActive), string(StatusInactive):
		return StatusFilter(v), nil
	default:
		return "", fmt.Errorf("unknown status filter %q (want all, active or inactive)", s)
	}
}

func ParseRoleFilter(s string) (RoleFilter, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case FilterAll, string(RoleAdmin), string(RoleUser):
		return RoleFilter(v), nil
	default:
		return "", fmt.Errorf("unknown role filter %q (want all, admin or user)", s)
	}
}
