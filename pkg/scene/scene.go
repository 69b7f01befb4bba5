// Package scene builds the demo worlds used by the sandbox and viewer
package scene

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/entity"
	"github.com/opd-ai/go-physbox/pkg/physics"
	"github.com/opd-ai/go-physbox/pkg/validation"
)

// ErrUnknownScene is returned by Load for unregistered names
var ErrUnknownScene = errors.New("unknown scene")

// Scene is a named world builder. Gravity is applied by Load when the
// world has none configured.
type Scene struct {
	Name        string
	Description string
	Gravity     physics.Vector2D
	Build       func(w *engine.World) error
}

var registry = map[string]Scene{}

func register(s Scene) {
	registry[s.Name] = s
}

func init() {
	register(Scene{
		Name:        "springs",
		Description: "three point masses joined by two springs",
		Build:       Springs,
	})
	register(Scene{
		Name:        "stack",
		Description: "a stack of wooden crates and a rubber wedge on a static floor",
		Gravity:     physics.Vector2D{Y: -98},
		Build:       Stack,
	})
	register(Scene{
		Name:        "pendulum",
		Description: "a chain of steel links hanging from a pin",
		Gravity:     physics.Vector2D{Y: -98},
		Build:       Pendulum,
	})
}

// Names returns the registered scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a scene by name
func Lookup(name string) (Scene, error) {
	clean, err := validation.ValidateSceneName(name)
	if err != nil {
		return Scene{}, err
	}
	s, ok := registry[clean]
	if !ok {
		return Scene{}, fmt.Errorf("%q: %w", clean, ErrUnknownScene)
	}
	return s, nil
}

// Load builds the named scene into w
func Load(name string, w *engine.World) (Scene, error) {
	s, err := Lookup(name)
	if err != nil {
		return Scene{}, err
	}
	if w.Gravity() == (physics.Vector2D{}) {
		w.SetGravity(s.Gravity)
	}
	if err := s.Build(w); err != nil {
		return Scene{}, fmt.Errorf("building scene %q: %w", s.Name, err)
	}
	return s, nil
}

// Springs adds three free point masses of very different mass linked in
// a chain by two springs of zero slack length
func Springs(w *engine.World) error {
	specs := []struct {
		pos  physics.Vector2D
		mass float64
	}{
		{physics.Vector2D{X: 0, Y: 0}, 10},
		{physics.Vector2D{X: 100, Y: 100}, 20},
		{physics.Vector2D{X: 0, Y: 50}, 0.1},
	}

	bodies := make([]*entity.Body, len(specs))
	for i, s := range specs {
		b, err := entity.NewBody(s.pos, 0, s.mass, 1)
		if err != nil {
			return err
		}
		b.Style = &entity.RenderStyle{Color: palette[i%len(palette)]}
		bodies[i] = b
	}

	s1, err := entity.NewSpring(0.5, 0, bodies[0], bodies[1])
	if err != nil {
		return err
	}
	s2, err := entity.NewSpring(0.75, 0, bodies[1], bodies[2])
	if err != nil {
		return err
	}

	for _, b := range bodies {
		if err := w.AddEntity(b); err != nil {
			return err
		}
	}
	return w.AddSpring(s1, s2)
}

// Stack adds a static floor, five crates stacked with a small offset and
// a rubber wedge sliding towards them
func Stack(w *engine.World) error {
	wood, rubber, stone := entity.Wood, entity.Rubber, entity.Steel

	floor, err := staticBox(400, 20, physics.Vector2D{X: 0, Y: -10}, &stone)
	if err != nil {
		return err
	}
	if err := w.AddEntity(floor); err != nil {
		return err
	}

	crate, err := entity.NewShape(physics.Box(30, 30), &wood)
	if err != nil {
		return err
	}
	for i := 0; i < 5; i++ {
		pos := physics.Vector2D{X: float64(i%2) * 2, Y: 15 + float64(i)*30.5}
		b, err := entity.NewColliderFromDensity(crate, pos, 0)
		if err != nil {
			return err
		}
		b.Style = &entity.RenderStyle{Color: palette[i%len(palette)]}
		if err := w.AddEntity(b); err != nil {
			return err
		}
	}

	triangle, err := physics.RegularPolygon(20, 3)
	if err != nil {
		return err
	}
	wedgeShape, err := entity.NewShape(triangle, &rubber)
	if err != nil {
		return err
	}
	wedge, err := entity.NewColliderFromDensity(wedgeShape, physics.Vector2D{X: 150, Y: 20}, 0)
	if err != nil {
		return err
	}
	wedge.SetVelocity(physics.Vector2D{X: -60})
	wedge.Style = &entity.RenderStyle{Color: color.RGBA{R: 230, G: 80, B: 60, A: 255}}
	return w.AddEntity(wedge)
}

// Pendulum hangs a chain of hexagonal steel links from a pin, each link
// joined to the next by a stiff spring. The chain starts horizontal.
func Pendulum(w *engine.World) error {
	const (
		links     = 4
		spacing   = 40.0
		stiffness = 400.0
	)
	steel := entity.Steel

	pin := entity.NewPin(physics.Vector2D{X: 0, Y: 200})
	if err := w.AddEntity(pin); err != nil {
		return err
	}

	hexagon, err := physics.RegularPolygon(8, 6)
	if err != nil {
		return err
	}
	link, err := entity.NewShape(hexagon, &steel)
	if err != nil {
		return err
	}

	prev := pin
	for i := 1; i <= links; i++ {
		b, err := entity.NewColliderFromDensity(link, physics.Vector2D{X: float64(i) * spacing, Y: 200}, 0)
		if err != nil {
			return err
		}
		b.Style = &entity.RenderStyle{Color: palette[i%len(palette)]}
		s, err := entity.NewSpring(stiffness*b.Mass(), spacing*0.9, prev, b)
		if err != nil {
			return err
		}
		if err := w.AddEntity(b); err != nil {
			return err
		}
		if err := w.AddSpring(s); err != nil {
			return err
		}
		prev = b
	}
	return nil
}

func staticBox(width, height float64, pos physics.Vector2D, m *entity.Material) (*entity.Body, error) {
	shape, err := entity.NewShape(physics.Box(width, height), m)
	if err != nil {
		return nil, err
	}
	b, err := entity.NewStaticCollider(shape, pos)
	if err != nil {
		return nil, err
	}
	b.Style = &entity.RenderStyle{Color: color.RGBA{R: 90, G: 90, B: 100, A: 255}}
	return b, nil
}

var palette = []color.RGBA{
	{R: 66, G: 135, B: 245, A: 255},
	{R: 245, G: 197, B: 66, A: 255},
	{R: 96, G: 200, B: 120, A: 255},
	{R: 200, G: 100, B: 220, A: 255},
}
