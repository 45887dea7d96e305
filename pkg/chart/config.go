package chart

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Orientation selects which pixel direction carries the model X axis.
type Orientation int

const (
	// Vertical is the regular layout: model X along pixel x.
	Vertical Orientation = iota
	// Horizontal swaps the axes: model X runs along pixel y.
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// UnmarshalYAML accepts "vertical" and "horizontal".
func (o *Orientation) UnmarshalYAML(value *yaml.Node) error {
	switch value.Value {
	case "", "vertical":
		*o = Vertical
	case "horizontal":
		*o = Horizontal
	default:
		return fmt.Errorf("chart: unknown orientation %q", value.Value)
	}
	return nil
}

// WheelAction maps a modifier combination to a wheel behavior.
type WheelAction int

const (
	WheelZoom WheelAction = iota
	WheelZoomX
	WheelZoomY
	WheelPanMatching
	WheelPanX
	WheelPanY
)

// Modifiers is a bitmask of held modifier keys during a wheel event.
type Modifiers int

const (
	ModNone  Modifiers = 0
	ModShift Modifiers = 1 << 0
	ModCtrl  Modifiers = 1 << 1
	ModAlt   Modifiers = 1 << 2
	ModMeta  Modifiers = 1 << 3
)

// Color is an RGBA color. Alpha carries the gridline fade state managed by
// the pen ladder.
type Color struct {
	R uint8 `yaml:"r" json:"r"`
	G uint8 `yaml:"g" json:"g"`
	B uint8 `yaml:"b" json:"b"`
	A uint8 `yaml:"a" json:"a"`
}

// PenLevel is one rung of an axis pen ladder: the gridline, label and axis
// pens used when the axis zoom sits at Level. Alpha holds the configured
// alpha restored when the level is active.
type PenLevel struct {
	Level int   `yaml:"level" json:"level"`
	Alpha uint8 `yaml:"alpha" json:"alpha"`
	Pen   Color `yaml:"pen" json:"pen"`
	Text  Color `yaml:"text" json:"text"`
	Grid  Color `yaml:"grid" json:"grid"`
}

// Axis describes one X or Y axis: its model range, zoom bounds, pen ladder
// and optional pixel strip where drags address this axis alone.
type Axis struct {
	Model   Range      `yaml:"model" json:"model"`
	MinZoom float64    `yaml:"minZoom" json:"minZoom"`
	MaxZoom float64    `yaml:"maxZoom" json:"maxZoom"`
	Pens    []PenLevel `yaml:"pens,omitempty" json:"pens,omitempty"`
	// Strip is the pixel region (axis labels/ticks) that anchors a drag to
	// this axis only. A zero Strip disables axis-anchored gestures.
	Strip Rect `yaml:"strip,omitempty" json:"strip,omitempty"`
}

// Series assigns a data series to an axis pair and configures curve
// manipulation.
type Series struct {
	XAxis        int  `yaml:"xAxis" json:"xAxis"`
	YAxis        int  `yaml:"yAxis" json:"yAxis"`
	Manipulable  bool `yaml:"manipulable,omitempty" json:"manipulable,omitempty"`
	// MidY is the series' vertical pixel midpoint, supplied by the server,
	// used as the anchor for wheel-scaling a manipulated curve.
	MidY float64 `yaml:"midY,omitempty" json:"midY,omitempty"`
	// Points are model-space curve samples sorted by X, supplied by the
	// server. The crosshair snaps to them when this series is followed.
	Points []Point `yaml:"points,omitempty" json:"points,omitempty"`
}

// Configuration is the immutable-per-frame snapshot the server supplies at
// init and on every update. Transform state is deliberately not part of it;
// transforms persist across configuration updates.
type Configuration struct {
	// Area is the full render area in pixels.
	Area Rect `yaml:"area" json:"area"`
	// InsideArea is the render area minus axis margins; pannable content
	// must stay within it.
	InsideArea  Rect        `yaml:"insideArea" json:"insideArea"`
	Orientation Orientation `yaml:"orientation" json:"orientation"`

	XAxes []Axis `yaml:"xAxes" json:"xAxes"`
	YAxes []Axis `yaml:"yAxes" json:"yAxes"`

	Series []Series `yaml:"series,omitempty" json:"series,omitempty"`

	Pan       bool `yaml:"pan" json:"pan"`
	Zoom      bool `yaml:"zoom" json:"zoom"`
	Crosshair bool `yaml:"crosshair" json:"crosshair"`
	// Rubberband enables elastic overscroll during drags and the inertial
	// settle animation on release.
	Rubberband bool `yaml:"rubberband" json:"rubberband"`
	// CurveManipulation lets gestures on a selected series rescale that
	// series' own transform instead of the axis transforms.
	CurveManipulation bool `yaml:"curveManipulation,omitempty" json:"curveManipulation,omitempty"`
	// FollowCurve, when set, names the series whose curve the crosshair
	// tracks: the crosshair keeps the pointer's model X and takes the
	// curve's Y at that X.
	FollowCurve *int `yaml:"followCurve,omitempty" json:"followCurve,omitempty"`

	WheelActions map[Modifiers]WheelAction `yaml:"wheelActions,omitempty" json:"wheelActions,omitempty"`
}

// Validate checks the structural invariants the engine relies on.
func (c *Configuration) Validate() error {
	if c.Area.Width <= 0 || c.Area.Height <= 0 {
		return fmt.Errorf("chart: render area must have positive size")
	}
	if c.InsideArea.Width <= 0 || c.InsideArea.Height <= 0 {
		return fmt.Errorf("chart: inside area must have positive size")
	}
	if len(c.XAxes) == 0 || len(c.YAxes) == 0 {
		return fmt.Errorf("chart: at least one X and one Y axis required")
	}
	for i, ax := range c.XAxes {
		if err := validateAxis(ax); err != nil {
			return fmt.Errorf("chart: x axis %d: %w", i, err)
		}
	}
	for i, ax := range c.YAxes {
		if err := validateAxis(ax); err != nil {
			return fmt.Errorf("chart: y axis %d: %w", i, err)
		}
	}
	for i, s := range c.Series {
		if s.XAxis < 0 || s.XAxis >= len(c.XAxes) {
			return fmt.Errorf("chart: series %d references x axis %d", i, s.XAxis)
		}
		if s.YAxis < 0 || s.YAxis >= len(c.YAxes) {
			return fmt.Errorf("chart: series %d references y axis %d", i, s.YAxis)
		}
	}
	if c.FollowCurve != nil {
		fc := *c.FollowCurve
		if fc < 0 || fc >= len(c.Series) {
			return fmt.Errorf("chart: follow curve references series %d", fc)
		}
		if len(c.Series[fc].Points) == 0 {
			return fmt.Errorf("chart: follow curve series %d has no points", fc)
		}
	}
	return nil
}

func validateAxis(ax Axis) error {
	if ax.Model.Span() <= 0 {
		return fmt.Errorf("model range must be increasing")
	}
	if ax.MinZoom <= 0 || ax.MaxZoom < ax.MinZoom {
		return fmt.Errorf("zoom bounds must satisfy 0 < min <= max")
	}
	return nil
}

// normalize fills defaults after decode or direct construction.
func (c *Configuration) normalize() {
	for i := range c.XAxes {
		normalizeAxis(&c.XAxes[i])
	}
	for i := range c.YAxes {
		normalizeAxis(&c.YAxes[i])
	}
	if c.WheelActions == nil {
		c.WheelActions = map[Modifiers]WheelAction{
			ModNone:  WheelZoom,
			ModShift: WheelPanMatching,
			ModCtrl:  WheelZoomX,
			ModAlt:   WheelZoomY,
		}
	}
}

func normalizeAxis(ax *Axis) {
	if ax.MinZoom == 0 {
		ax.MinZoom = 1
	}
	if ax.MaxZoom == 0 {
		ax.MaxZoom = maxDefaultZoom
	}
}

const maxDefaultZoom = 1 << 20

// LoadConfiguration reads a YAML (or JSON, being a YAML subset)
// configuration document.
func LoadConfiguration(r io.Reader) (Configuration, error) {
	var cfg Configuration
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Configuration{}, fmt.Errorf("chart: decoding configuration: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// LoadConfigurationFile reads a configuration document from disk.
func LoadConfigurationFile(path string) (Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("chart: opening configuration: %w", err)
	}
	defer f.Close()
	return LoadConfiguration(f)
}
