package paint

import (
	"fmt"
	"math/rand/v2"
	"time"

	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/monitoring"
	"drive-canvas.klederson.com/internal/telemetry"
	"github.com/google/uuid"
)

// Persona is a synthetic painting personality assigned to a painter for one
// session.
type Persona struct {
	ID              uuid.UUID
	Name            string
	Style           string
	Description     string
	SpeedMultiplier float64
	ChaosMultiplier float64
	BrushMultiplier float64
	HueShift        float64 // Degrees, [-30, 30)
	Session         int
	Created         time.Time
}

type personality struct {
	style       string
	description string
	speed       float64
	chaos       float64
	brush       float64
}

var personalities = []personality{
	{"Energetic", "Fast, decisive strokes", 1.5, 2.0, 1.3},
	{"Contemplative", "Soft, deliberate movement", 0.7, 0.8, 0.8},
	{"Explosive", "Intense splashes", 1.8, 2.5, 1.5},
	{"Delicate", "Fine, precise lines", 0.5, 0.5, 0.6},
	{"Wild", "Art without limits", 2.0, 3.0, 1.8},
	{"Rhythmic", "Flowing patterns", 1.2, 1.5, 1.0},
	{"Bold", "Vibrant colour", 1.6, 2.2, 1.4},
}

var personaNamespace = uuid.MustParse("6f1c2a7e-4b7d-4d8e-9a35-1d2c8e0f5a61")

// GeneratePersona derives the persona for a painter session. The result
// depends only on the generation seed, the painter id and the session number;
// created is recorded as metadata.
func GeneratePersona(seed int64, id string, slot, session int, created time.Time) Persona {
	rng := rand.New(rand.NewPCG(uint64(seed)+uint64(session)*1000, telemetry.IdentityKey(id)))
	p := personalities[rng.IntN(len(personalities))]
	return Persona{
		ID:              uuid.NewSHA1(personaNamespace, []byte(fmt.Sprintf("%d/%s/%d", seed, id, session))),
		Name:            fmt.Sprintf("%s %d", PaletteName(slot), session),
		Style:           p.style,
		Description:     p.description,
		SpeedMultiplier: p.speed,
		ChaosMultiplier: p.chaos,
		BrushMultiplier: p.brush,
		HueShift:        (rng.Float64() - 0.5) * 60,
		Session:         session,
		Created:         created,
	}
}

// PersonaState is the per-painter persona lifecycle state.
type PersonaState int

const (
	PersonaActive  PersonaState = iota // Persona assigned, session clock running
	PersonaExpired                     // Session over; reassignment pending
)

func (s PersonaState) String() string {
	if s == PersonaExpired {
		return "expired"
	}
	return "active"
}

// PersonaManager rotates painter personas on a session timer.
type PersonaManager struct {
	Seed    int64
	Session time.Duration
}

// NewPersonaManager creates a manager using the default session length.
func NewPersonaManager(seed int64) PersonaManager {
	return PersonaManager{Seed: seed, Session: config.SessionDuration}
}

// State reports whether p's persona is still within its session.
func (m PersonaManager) State(p *PainterState, now time.Time) PersonaState {
	if now.Sub(p.SessionStart) > m.Session {
		return PersonaExpired
	}
	return PersonaActive
}

// Assign starts the painter's next session with a freshly generated persona.
func (m PersonaManager) Assign(p *PainterState, now time.Time) {
	p.PersonaCount++
	p.Persona = GeneratePersona(m.Seed, p.ID, p.Slot, p.PersonaCount, now)
	p.SessionStart = now
	monitoring.Logf("new persona on %s: %s (%s)", p.ID, p.Persona.Name, p.Persona.Style)
}

// Check reassigns an expired persona. It reports whether a rotation happened.
func (m PersonaManager) Check(p *PainterState, now time.Time) bool {
	if m.State(p, now) != PersonaExpired {
		return false
	}
	m.Assign(p, now)
	return true
}
