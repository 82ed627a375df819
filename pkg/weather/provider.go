package weather

import (
	"context"
	"errors"
)

// ErrCityNotFound is returned for any non-success status from the provider.
var ErrCityNotFound = errors.New("City not found")

// Provider looks up the current conditions for a city by name.
type Provider interface {
	CurrentConditions(ctx context.Context, city string) (*Snapshot, error)
}

// Snapshot is the subset of the current-conditions payload the view consumes.
// Field layout follows the provider's JSON so a decoded body is used as-is.
type Snapshot struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Weather []Condition `json:"weather"`
	Main    struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
}

// Condition is one entry of the provider's weather list.
type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

// Primary returns the first reported condition, if any.
func (s *Snapshot) Primary() (Condition, bool) {
	if s == nil || len(s.Weather) == 0 {
		return Condition{}, false
	}
	return s.Weather[0], true
}
