package view

import "github.com/Siphelele-Maphumulo/WeatherApp/pkg/weather"

// State is everything the weather view renders from. Transitions return a
// new value and never mutate the receiver's snapshot.
type State struct {
	City     string
	Loading  bool
	Err      string
	Snapshot *weather.Snapshot
}

func (s State) Edit(text string) State {
	s.City = text
	return s
}

// Begin marks a lookup as in flight. Any previous error is cleared so it is
// never shown alongside the loading indicator.
func (s State) Begin() State {
	s.Loading = true
	s.Err = ""
	return s
}

func (s State) Resolve(snap *weather.Snapshot) State {
	s.Snapshot = snap
	s.Err = ""
	s.Loading = false
	return s
}

func (s State) Reject(err error) State {
	s.Snapshot = nil
	s.Err = err.Error()
	s.Loading = false
	return s
}
