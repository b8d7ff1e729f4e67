package tracker

import (
	"fmt"

	"offerwatch/internal/domain"
	"offerwatch/pkg/errcodes"
)

// Policy is the run-wide rule governing which offer wins.
type Policy string

const (
	// PolicyCheapest keeps the lowest total price seen, first-wins on ties.
	PolicyCheapest Policy = "cheapest"
	// PolicyThreshold takes the first offer at or under the product's
	// expected price.
	PolicyThreshold Policy = "threshold"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyCheapest, PolicyThreshold:
		return Policy(s), nil
	default:
		return "", domain.NewError(errcodes.ConfigurationError,
			fmt.Sprintf("unknown selection policy %q", s))
	}
}
