// pkg/engine/snapshot.go
package engine

import (
	"fmt"
	"math"

	"github.com/opd-ai/go-physbox/pkg/config"
	"github.com/opd-ai/go-physbox/pkg/entity"
	"github.com/opd-ai/go-physbox/pkg/physics"
)

// Snapshot is the structural state of a world. Bodies reference shapes
// and shapes reference materials by key, so geometry shared between
// bodies is stored once. Infinite mass and moment are recorded as flags
// because JSON has no infinity.
type Snapshot struct {
	Physics   config.PhysicsConfig `json:"physics"`
	Step      uint64               `json:"step"`
	Materials []entity.Material    `json:"materials"`
	Shapes    []ShapeRecord        `json:"shapes"`
	Bodies    []BodyRecord         `json:"bodies"`
	Springs   []SpringRecord       `json:"springs"`
}

// ShapeRecord is a shape table entry. Material indexes Snapshot.Materials.
type ShapeRecord struct {
	Key      entity.ShapeID  `json:"key"`
	Vertices physics.Polygon `json:"vertices"`
	Material int             `json:"material"`
}

// BodyRecord is one body. Shape is the key of a ShapeRecord, zero for
// point bodies.
type BodyRecord struct {
	Key            entity.ID           `json:"key"`
	Mode           string              `json:"mode"`
	Mass           float64             `json:"mass"`
	InfiniteMass   bool                `json:"infiniteMass,omitempty"`
	Moment         float64             `json:"moment"`
	InfiniteMoment bool                `json:"infiniteMoment,omitempty"`
	State          entity.State        `json:"state"`
	Shape          entity.ShapeID      `json:"shape,omitempty"`
	Style          *entity.RenderStyle `json:"style,omitempty"`
}

// SpringRecord is one spring. End1 and End2 are body keys.
type SpringRecord struct {
	End1        entity.ID        `json:"end1"`
	End2        entity.ID        `json:"end2"`
	Stiffness   float64          `json:"stiffness"`
	SlackLength float64          `json:"slackLength"`
	End1Join    physics.Vector2D `json:"end1Join"`
	End2Join    physics.Vector2D `json:"end2Join"`
}

// Snapshot captures the world's bodies, springs and physics parameters
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Physics: w.physics,
		Step:    w.step,
	}

	materialKeys := make(map[*entity.Material]int)
	shapeSeen := make(map[entity.ShapeID]bool)

	for _, b := range w.bodies {
		record := BodyRecord{
			Key:    b.ID(),
			Mode:   b.Mode().String(),
			Mass:   b.Mass(),
			Moment: b.Moment(),
			State:  b.State(),
		}
		if math.IsInf(record.Mass, 1) {
			record.Mass, record.InfiniteMass = 0, true
		}
		if math.IsInf(record.Moment, 1) {
			record.Moment, record.InfiniteMoment = 0, true
		}
		if b.Style != nil {
			style := *b.Style
			record.Style = &style
		}

		if shape := b.Shape(); shape != nil {
			record.Shape = shape.ID
			if !shapeSeen[shape.ID] {
				shapeSeen[shape.ID] = true
				key, ok := materialKeys[shape.Material]
				if !ok {
					key = len(s.Materials)
					materialKeys[shape.Material] = key
					s.Materials = append(s.Materials, *shape.Material)
				}
				s.Shapes = append(s.Shapes, ShapeRecord{
					Key:      shape.ID,
					Vertices: shape.Polygon.Clone(),
					Material: key,
				})
			}
		}
		s.Bodies = append(s.Bodies, record)
	}

	for _, spring := range w.springs {
		s.Springs = append(s.Springs, SpringRecord{
			End1:        spring.End1,
			End2:        spring.End2,
			Stiffness:   spring.Stiffness,
			SlackLength: spring.SlackLength,
			End1Join:    spring.End1Join,
			End2Join:    spring.End2Join,
		})
	}
	return s
}

// Restore builds a new world from a snapshot. The snapshot's physics
// parameters apply unless opts override them.
func Restore(s *Snapshot, opts ...Option) (*World, error) {
	if s == nil {
		return nil, fmt.Errorf("nil snapshot: %w", ErrTypeMismatch)
	}
	w := NewWorld(append([]Option{WithPhysicsConfig(s.Physics)}, opts...)...)
	if err := w.Load(s); err != nil {
		return nil, err
	}
	return w, nil
}

// Load adds the snapshot's bodies and springs to w and sets its step
// counter. Bodies receive fresh IDs; spring ends are remapped through
// the body keys. The world's own physics parameters are kept. Nothing
// is added when the snapshot is invalid.
func (w *World) Load(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("nil snapshot: %w", ErrTypeMismatch)
	}
	if w.stepping {
		return ErrReentrantStep
	}

	materials := make([]*entity.Material, len(s.Materials))
	for i := range s.Materials {
		m := s.Materials[i]
		if err := m.Validate(); err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
		materials[i] = &m
	}

	shapes := make(map[entity.ShapeID]*entity.Shape, len(s.Shapes))
	for _, record := range s.Shapes {
		if record.Material < 0 || record.Material >= len(materials) {
			return fmt.Errorf("shape %d: material %d: %w", record.Key, record.Material, ErrUnknownEntity)
		}
		shape, err := entity.NewShape(record.Vertices, materials[record.Material])
		if err != nil {
			return fmt.Errorf("shape %d: %w", record.Key, err)
		}
		shapes[record.Key] = shape
	}

	bodies := make([]*entity.Body, 0, len(s.Bodies))
	ids := make(map[entity.ID]*entity.Body, len(s.Bodies))
	for _, record := range s.Bodies {
		b, err := restoreBody(record, shapes)
		if err != nil {
			return fmt.Errorf("body %d: %w", record.Key, err)
		}
		if _, dup := ids[record.Key]; dup {
			return fmt.Errorf("body %d: %w", record.Key, ErrDuplicate)
		}
		bodies = append(bodies, b)
		ids[record.Key] = b
	}

	springs := make([]*entity.Spring, 0, len(s.Springs))
	for i, record := range s.Springs {
		b1, ok1 := ids[record.End1]
		b2, ok2 := ids[record.End2]
		if !ok1 || !ok2 {
			return fmt.Errorf("spring %d: %w", i, ErrUnknownEntity)
		}
		spring, err := entity.NewSpring(record.Stiffness, record.SlackLength, b1, b2)
		if err != nil {
			return fmt.Errorf("spring %d: %w", i, err)
		}
		springs = append(springs, spring.WithJoins(record.End1Join, record.End2Join))
	}

	if err := w.AddEntity(bodies...); err != nil {
		return err
	}
	if err := w.AddSpring(springs...); err != nil {
		return err
	}
	w.step = s.Step
	return nil
}

func restoreBody(record BodyRecord, shapes map[entity.ShapeID]*entity.Shape) (*entity.Body, error) {
	mode, ok := entity.ParseMode(record.Mode)
	if !ok {
		return nil, fmt.Errorf("mode %q: %w", record.Mode, ErrTypeMismatch)
	}

	var shape *entity.Shape
	if record.Shape != 0 {
		if shape, ok = shapes[record.Shape]; !ok {
			return nil, fmt.Errorf("shape %d: %w", record.Shape, ErrUnknownEntity)
		}
	}

	mass, moment := record.Mass, record.Moment
	if record.InfiniteMass {
		mass = math.Inf(1)
	}
	if record.InfiniteMoment {
		moment = math.Inf(1)
	}

	var b *entity.Body
	var err error
	switch {
	case mode == entity.ModeStatic && shape != nil:
		b, err = entity.NewStaticCollider(shape, record.State.Position)
	case mode == entity.ModeStatic:
		b = entity.NewPin(record.State.Position)
	case shape != nil:
		b, err = entity.NewCollider(shape, record.State.Position, record.State.Orientation, mass, moment)
	default:
		b, err = entity.NewBody(record.State.Position, record.State.Orientation, mass, moment)
	}
	if err != nil {
		return nil, err
	}

	b.SetState(record.State)
	if record.Style != nil {
		style := *record.Style
		b.Style = &style
	}
	return b, nil
}
