package view

import (
	"context"
	"strings"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/Siphelele-Maphumulo/WeatherApp/pkg/weather"
)

const DefaultCity = "Durban"

// View owns the lookup state and drives fetches against a Provider.
//
// Nothing orders concurrent lookups: if a second search is submitted while
// one is in flight, whichever settles last overwrites the other, and the
// first to settle clears the loading flag.
type View struct {
	provider    weather.Provider
	logger      *zap.Logger
	defaultCity string
	onChange    func(State)

	mu    sync.Mutex
	state State

	mount    sync.Once
	inflight sync.WaitGroup
}

type Config struct {
	Provider    weather.Provider
	Logger      *zap.Logger
	DefaultCity string
	// OnChange is called with the new state after every transition. Calls
	// are serialised.
	OnChange func(State)
}

func New(cfg Config) *View {
	v := &View{
		provider:    cfg.Provider,
		logger:      cfg.Logger,
		defaultCity: cfg.DefaultCity,
		onChange:    cfg.OnChange,
	}
	if v.logger == nil {
		v.logger = zap.NewNop()
	}
	if v.defaultCity == "" {
		v.defaultCity = DefaultCity
	}
	v.state = State{City: v.defaultCity}
	return v
}

// State returns a copy of the current state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *View) SetCityQuery(text string) {
	v.apply(func(s State) State { return s.Edit(text) })
}

// SubmitSearch starts a lookup for the current city query. The loading flag
// is set before it returns; the fetch itself runs in the background. Blank
// queries are ignored and false is returned.
func (v *View) SubmitSearch(ctx context.Context) bool {
	return v.start(ctx, v.State().City)
}

// Mount runs the startup lookup for the default city. Only the first call
// has any effect.
func (v *View) Mount(ctx context.Context) {
	v.mount.Do(func() {
		v.start(ctx, v.defaultCity)
	})
}

// Wait blocks until every lookup started so far has settled.
func (v *View) Wait() {
	v.inflight.Wait()
}

// FetchWeather looks up cityName and blocks until the state reflects the
// outcome.
func (v *View) FetchWeather(ctx context.Context, cityName string) {
	if strings.TrimSpace(cityName) == "" {
		return
	}
	v.apply(State.Begin)
	v.settle(ctx, cityName)
}

func (v *View) start(ctx context.Context, cityName string) bool {
	if strings.TrimSpace(cityName) == "" {
		return false
	}
	v.apply(State.Begin)

	v.inflight.Add(1)
	go func() {
		defer v.inflight.Done()
		v.settle(ctx, cityName)
	}()
	return true
}

func (v *View) settle(ctx context.Context, cityName string) {
	log := v.logger.With(zap.String("city", cityName))

	snap, err := v.provider.CurrentConditions(ctx, cityName)
	if err != nil {
		log.Info("lookup failed", zap.Error(err))
		v.apply(func(s State) State { return s.Reject(err) })
		return
	}

	if ce := log.Check(zap.DebugLevel, "lookup resolved"); ce != nil {
		ce.Write(zap.String("snapshot", spew.Sdump(snap)))
	}
	v.apply(func(s State) State { return s.Resolve(snap) })
}

func (v *View) apply(transition func(State) State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = transition(v.state)
	if v.onChange != nil {
		v.onChange(v.state)
	}
}
