package view

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"text/template"

	"github.com/Siphelele-Maphumulo/WeatherApp/pkg/weather"
)

// ErrMalformedSnapshot is returned by Render when a snapshot carries no
// condition entry to draw.
var ErrMalformedSnapshot = errors.New("weather snapshot has no conditions")

const title = "Weather App"

var frame = template.Must(template.New("frame").Parse(`{{.Title}}
{{.Rule}}
{{- if .Loading}}
Loading...
{{- end}}
{{- if .Err}}
! {{.Err}}
{{- end}}
{{- with .Panel}}

  {{.Location}}

  {{.Icon.Glyph}}  {{.Icon.Label}}
  {{.Temp}}

  wind {{.Wind}}   {{.Description}}   clouds {{.Clouds}}
{{- end}}
`))

type panel struct {
	Location    string
	Icon        weather.Icon
	Temp        string
	Wind        string
	Description string
	Clouds      string
}

type frameData struct {
	Title   string
	Rule    string
	Loading bool
	Err     string
	Panel   *panel
}

// Render writes one frame for s: the title, the loading indicator, the error
// line and, when a snapshot is present, the results panel.
func Render(w io.Writer, s State) error {
	data := frameData{
		Title:   title,
		Rule:    strings.Repeat("-", len(title)),
		Loading: s.Loading,
		Err:     s.Err,
	}

	if s.Snapshot != nil {
		p, err := newPanel(s.Snapshot)
		if err != nil {
			return err
		}
		data.Panel = p
	}

	return frame.Execute(w, data)
}

func newPanel(snap *weather.Snapshot) (*panel, error) {
	cond, ok := snap.Primary()
	if !ok {
		return nil, ErrMalformedSnapshot
	}
	return &panel{
		Location:    snap.Name + ", " + snap.Sys.Country,
		Icon:        weather.MapConditionToIcon(cond.Main),
		Temp:        FormatTemperature(snap.Main.Temp),
		Wind:        formatNumber(snap.Wind.Speed) + " m/s",
		Description: cond.Description,
		Clouds:      formatNumber(snap.Clouds.All) + "%",
	}, nil
}

// FormatTemperature rounds to the nearest whole degree, halves going up
// (22.5 -> 23, -2.5 -> -2).
func FormatTemperature(celsius float64) string {
	rounded := math.Floor(celsius + 0.5)
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return strconv.FormatFloat(rounded, 'f', 0, 64) + "°C"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
