package paint

import (
	"math/rand/v2"
	"sort"
	"time"

	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/telemetry"
)

// Status is what a painter is doing from the audience's point of view.
type Status int

const (
	StatusPainting Status = iota
	StatusPreparing
	StatusDisconnected
)

func (s Status) String() string {
	switch s {
	case StatusPreparing:
		return "preparing brush"
	case StatusDisconnected:
		return "brush at rest"
	default:
		return "painting"
	}
}

// PainterState is everything the engine remembers about one painter.
type PainterState struct {
	ID   string
	Slot int
	Key  uint64 // Identity-derived constant
	Zone Zone

	Pos        Vec
	LastPos    Vec
	Heading    float64
	Stagnation int
	HueOffset  float64 // Cumulative bounce/escape hue, used mod 360
	Path       *PathMemory
	State      DrivingState

	Persona      Persona
	PersonaCount int
	SessionStart time.Time

	Status    Status
	NextPaint time.Time
	Strokes   int
	Events    int
	LastMark  MarkKind
	LastEvent telemetry.EventType

	rng *rand.Rand
}

// newPainterState creates a painter at the centre of its zone.
func newPainterState(id string, slot int, seed int64) *PainterState {
	key := telemetry.IdentityKey(id)
	zone := ZoneFor(slot)
	return &PainterState{
		ID:      id,
		Slot:    slot,
		Key:     key,
		Zone:    zone,
		Pos:     zone.Center(),
		LastPos: zone.Center(),
		Path:    NewPathMemory(config.PathCapacity),
		State:   StateStarting,
		rng:     rand.New(rand.NewPCG(uint64(seed), key)),
	}
}

// PainterView is a read-only copy of a painter for display.
type PainterView struct {
	ID        string
	Slot      int
	Persona   Persona
	Status    Status
	State     DrivingState
	Pos       Vec
	Heading   float64
	Hue       float64
	Speed     float64
	Calm      float64
	Control   float64
	Speeds    []float64 // Recent speeds, oldest first
	Strokes   int
	Events    int
	LastMark  MarkKind
	LastEvent telemetry.EventType
}

// Store holds painter state keyed by identity. It is owned by the Engine and
// not safe for concurrent use on its own.
type Store struct {
	painters map[string]*PainterState
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{painters: make(map[string]*PainterState)}
}

// Get returns the painter with the given id.
func (s *Store) Get(id string) (*PainterState, bool) {
	p, ok := s.painters[id]
	return p, ok
}

// Put stores p under its id.
func (s *Store) Put(p *PainterState) {
	s.painters[p.ID] = p
}

// Count returns the number of known painters.
func (s *Store) Count() int {
	return len(s.painters)
}

// Snapshot returns display copies of all painters ordered by id.
func (s *Store) Snapshot() []PainterView {
	result := make([]PainterView, 0, len(s.painters))
	for _, p := range s.painters {
		v := PainterView{
			ID:        p.ID,
			Slot:      p.Slot,
			Persona:   p.Persona,
			Status:    p.Status,
			State:     p.State,
			Pos:       p.Pos,
			Heading:   p.Heading,
			Hue:       BaseHue(p.Slot),
			Strokes:   p.Strokes,
			Events:    p.Events,
			LastMark:  p.LastMark,
			LastEvent: p.LastEvent,
		}
		points := p.Path.Points()
		if n := len(points); n > 0 {
			last := points[n-1]
			v.Hue = last.Hue
			v.Speed = last.Speed
			v.Calm = last.Calm
			v.Control = last.Control
			v.Speeds = make([]float64, n)
			for i, pt := range points {
				v.Speeds[i] = pt.Speed
			}
		}
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}
