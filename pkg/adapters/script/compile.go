package script

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/dsl"
	"github.com/mitchellh/mapstructure"
)

type circleArgs struct {
	Radius    float64  `mapstructure:"radius"`
	Sweep     *float64 `mapstructure:"sweep"`
	Segments  int      `mapstructure:"segments"`
	Direction string   `mapstructure:"direction"`
}

type teleportArgs struct {
	X       float64  `mapstructure:"x"`
	Y       float64  `mapstructure:"y"`
	Heading *float64 `mapstructure:"heading"`
}

type repeatArgs struct {
	Times int   `mapstructure:"times"`
	Do    []any `mapstructure:"do"`
}

// Compile turns the turtle's ops into a frozen plan.
func (t Turtle) Compile() (*domain.Plan, error) {
	b := dsl.New()
	if err := compileOps(b, t.Commands, ""); err != nil {
		return nil, err
	}
	return b.Build()
}

// Compile turns every turtle of the document into a plan, in order.
func (d *Document) Compile() ([]*domain.Plan, error) {
	plans := make([]*domain.Plan, 0, len(d.Turtles))
	for i, t := range d.Turtles {
		p, err := t.Compile()
		if err != nil {
			return nil, fmt.Errorf("turtle %s: %w", label(i, t.Name), err)
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func label(i int, name string) string {
	if name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("#%d", i)
}

func compileOps(b *dsl.Builder, ops []any, path string) error {
	for i, raw := range ops {
		at := fmt.Sprintf("%s%d", path, i)
		name, arg, err := split(raw)
		if err != nil {
			return fmt.Errorf("op %s: %w", at, err)
		}
		if err := compileOp(b, name, arg, at); err != nil {
			return fmt.Errorf("op %s (%s): %w", at, name, err)
		}
		if err := b.Err(); err != nil {
			return fmt.Errorf("op %s (%s): %w", at, name, err)
		}
	}
	return nil
}

// split separates an op into its name and argument.
func split(raw any) (string, any, error) {
	switch v := raw.(type) {
	case string:
		return normalizeName(v), nil, nil
	case map[string]any:
		if len(v) != 1 {
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return "", nil, fmt.Errorf("%w: expected a single key, got %v", ErrInvalidOp, keys)
		}
		for k, a := range v {
			return normalizeName(k), a, nil
		}
	}
	return "", nil, fmt.Errorf("%w: unexpected %T", ErrInvalidOp, raw)
}

func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

func compileOp(b *dsl.Builder, name string, arg any, at string) error {
	switch name {
	case "forward", "fd":
		return number(arg, b.Forward)
	case "backward", "back", "bk":
		return number(arg, b.Backward)
	case "right", "rt":
		return number(arg, b.Right)
	case "left", "lt":
		return number(arg, b.Left)
	case "heading", "set_heading":
		return number(arg, b.SetHeading)
	case "speed":
		return number(arg, b.Speed)
	case "stroke_width", "width":
		return number(arg, b.StrokeWidth)
	case "segments":
		var n int
		if err := decode(arg, &n); err != nil {
			return err
		}
		b.Segments(n)
	case "circle":
		return circle(b, arg)
	case "pen_up", "penup", "pu":
		b.PenUp()
	case "pen_down", "pendown", "pd":
		b.PenDown()
	case "instant":
		b.Instant()
	case "stroke_color", "color", "pen_color":
		return colorArg(arg, b.StrokeColor)
	case "fill_color":
		return colorArg(arg, b.FillColor)
	case "begin_fill":
		b.BeginFill()
	case "end_fill":
		b.EndFill()
	case "fill":
		ops, ok := arg.([]any)
		if !ok {
			return fmt.Errorf("%w: fill expects a list of ops", ErrInvalidOp)
		}
		b.BeginFill()
		if err := compileOps(b, ops, at+"."); err != nil {
			return err
		}
		b.EndFill()
	case "show":
		b.Show()
	case "hide":
		b.Hide()
	case "visible":
		var v bool
		if err := decode(arg, &v); err != nil {
			return err
		}
		b.Commands(domain.SetVisible{Visible: v})
	case "shape":
		return shape(b, arg)
	case "teleport", "goto":
		var t teleportArgs
		if err := decode(arg, &t); err != nil {
			return err
		}
		if t.Heading != nil {
			b.TeleportHeading(t.X, t.Y, *t.Heading)
		} else {
			b.Teleport(t.X, t.Y)
		}
	case "reset":
		b.Reset()
	case "repeat":
		var r repeatArgs
		if err := decode(arg, &r); err != nil {
			return err
		}
		if r.Times < 0 {
			return fmt.Errorf("%w: negative repeat count %d", ErrInvalidOp, r.Times)
		}
		for i := 0; i < r.Times; i++ {
			if err := compileOps(b, r.Do, fmt.Sprintf("%s.%d.", at, i)); err != nil {
				return err
			}
		}
	default:
		return ErrUnknownOp
	}
	return nil
}

func decode(arg any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(arg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOp, err)
	}
	return nil
}

func number(arg any, apply func(float64) *dsl.Builder) error {
	if arg == nil {
		return fmt.Errorf("%w: missing numeric argument", ErrInvalidOp)
	}
	var v float64
	if err := decode(arg, &v); err != nil {
		return err
	}
	apply(v)
	return nil
}

func colorArg(arg any, apply func(domain.Color) *dsl.Builder) error {
	var c domain.Color
	switch v := arg.(type) {
	case string:
		parsed, err := domain.ParseColor(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOp, err)
		}
		c = parsed
	case map[string]any:
		c.A = 1
		if err := decode(v, &c); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: color expects a name, hex string or {r,g,b,a}", ErrInvalidOp)
	}
	apply(c)
	return nil
}

func circle(b *dsl.Builder, arg any) error {
	args := circleArgs{Segments: -1}
	if _, isMap := arg.(map[string]any); !isMap {
		if err := decode(arg, &args.Radius); err != nil {
			return err
		}
	} else if err := decode(arg, &args); err != nil {
		return err
	}

	sweep := 360.0
	if args.Sweep != nil {
		sweep = *args.Sweep
	}
	var dir domain.CircleDirection
	switch normalizeName(args.Direction) {
	case "", "left":
		dir = domain.CircleLeft
	case "right":
		dir = domain.CircleRight
	default:
		return fmt.Errorf("%w: circle direction %q", ErrInvalidOp, args.Direction)
	}
	if args.Segments >= 0 {
		b.Arc(args.Radius, sweep, args.Segments, dir)
		return nil
	}
	if dir == domain.CircleRight {
		b.CircleRight(args.Radius, sweep)
	} else {
		b.CircleLeft(args.Radius, sweep)
	}
	return nil
}

func shape(b *dsl.Builder, arg any) error {
	switch v := arg.(type) {
	case string:
		b.Shape(v)
	case map[string]any:
		var s domain.Shape
		if err := decode(v, &s); err != nil {
			return err
		}
		if len(s.Vertices) == 0 {
			b.Shape(s.Name)
			return nil
		}
		if s.Name == "" {
			s.Name = "custom"
		}
		b.CustomShape(s)
	default:
		return fmt.Errorf("%w: shape expects a name or {name, vertices}", ErrInvalidOp)
	}
	return nil
}
