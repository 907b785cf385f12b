// Package demo synthesises five drivers so the painting can run without a
// telemetry server.
package demo

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/metrics"
	"drive-canvas.klederson.com/internal/telemetry"
)

// Style shapes how a synthetic driver handles the car.
type Style struct {
	Name           string
	Steering       float64 // Steering amplitude and noise
	SpeedVariation float64
	BrakeFrequency float64
	Aggression     float64
	Precision      float64
}

var (
	Calm       = Style{Name: "calm", Steering: 0.4, SpeedVariation: 0.3, BrakeFrequency: 0.8, Aggression: 0.3, Precision: 0.8}
	Aggressive = Style{Name: "aggressive", Steering: 0.9, SpeedVariation: 0.7, BrakeFrequency: 0.6, Aggression: 0.9, Precision: 0.6}
	Normal     = Style{Name: "normal", Steering: 0.6, SpeedVariation: 0.5, BrakeFrequency: 0.7, Aggression: 0.5, Precision: 0.7}
	Nervous    = Style{Name: "nervous", Steering: 1.0, SpeedVariation: 0.9, BrakeFrequency: 1.2, Aggression: 0.4, Precision: 0.4}
	Expert     = Style{Name: "expert", Steering: 0.3, SpeedVariation: 0.2, BrakeFrequency: 0.9, Aggression: 0.7, Precision: 0.95}
)

const (
	extremeChance    = 0.05
	disconnectChance = 0.05
)

type driver struct {
	id     string
	style  Style
	offset float64 // Seconds added to the shared clock so drivers drift apart
}

// Source emits a frame for every driver at a fixed cadence. Metrics are
// derived locally the way an upstream processor would.
type Source struct {
	rng      *rand.Rand
	drivers  []driver
	proc     *metrics.Processor
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSource creates the five demo drivers. The seed fixes every random
// choice so two sources with the same seed emit identical frames.
func NewSource(seed int64) *Source {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x5eed))
	styles := []Style{Expert, Calm, Normal, Aggressive, Nervous}
	drivers := make([]driver, len(styles))
	for i, st := range styles {
		drivers[i] = driver{
			id:     "sim_" + string(rune('1'+i)),
			style:  st,
			offset: rng.Float64() * 10,
		}
	}
	return &Source{
		rng:      rng,
		drivers:  drivers,
		proc:     metrics.NewProcessor(),
		interval: config.DemoInterval,
	}
}

// Start begins emitting frames to sender in the background.
func (s *Source) Start(sender telemetry.Sender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New("demo source already started")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.loop(ctx, sender)
	}()
	return nil
}

func (s *Source) loop(ctx context.Context, sender telemetry.Sender) {
	sender.Send(telemetry.FrameMsg{Frame: telemetry.Frame{
		Kind:     telemetry.FrameHandshake,
		Message:  "demo drivers ready",
		DemoMode: true,
	}})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	elapsed := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed += s.interval.Seconds()
			sender.Send(telemetry.FrameMsg{Frame: s.Frame(elapsed)})
		}
	}
}

// Stop halts the source and waits for the emitter to exit.
func (s *Source) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Frame generates the frame for elapsed seconds since the start. It is not
// safe to call concurrently with a running source.
func (s *Source) Frame(elapsed float64) telemetry.Frame {
	frame := telemetry.Frame{
		Kind:       telemetry.FrameTelemetry,
		DemoMode:   true,
		Simulators: make([]telemetry.Simulator, 0, len(s.drivers)),
	}
	for _, d := range s.drivers {
		sim := telemetry.Simulator{ID: d.id}
		if s.rng.Float64() < disconnectChance {
			sim.Sample = telemetry.Sample{Gear: 1}
			sim.Metrics = telemetry.Metrics{
				CalmIndex:    50,
				ControlIndex: 50,
				Event:        telemetry.ExtremeEvent{Type: telemetry.EventNormal},
			}
		} else {
			sim.Sample = d.sample(s.rng, elapsed)
			sim.Metrics = s.proc.Update(d.id, sim.Sample)
		}
		frame.Simulators = append(frame.Simulators, sim)
	}
	return frame
}

// sample produces one reading: a slowly varying lap with noise scaled by the
// driver's style, occasional forced extremes and braking before corners.
func (d driver) sample(rng *rand.Rand, elapsed float64) telemetry.Sample {
	t := elapsed + d.offset
	noise := func() float64 { return rng.Float64()*2 - 1 }

	speed := math.Max(0, 60+40*math.Sin(t*0.1)+30*math.Sin(t*0.05)+noise()*d.style.SpeedVariation*20)
	gear := min(6, max(1, int(speed/25)+1))
	rpm := clampRange(speed/float64(gear)*100+1000+noise()*500, 800, config.MaxRPM)
	throttle := clampRange(0.7+0.3*math.Sin(t*0.2)+noise()*0.1, 0, 1)
	steering := 30*math.Sin(t*0.3)*d.style.Steering + noise()*d.style.Steering*15

	emergency := false
	if rng.Float64() < extremeChance {
		switch rng.IntN(3) {
		case 0:
			if speed > 60 {
				side := 150.0
				if rng.IntN(2) == 0 {
					side = -150
				}
				steering = side + noise()*30
			}
		case 1:
			if speed > 40 {
				steering *= -2.5
			}
		default:
			emergency = true
		}
	}

	brake := 0.0
	corner := math.Abs(steering) > 20 && speed > 80
	if corner || rng.Float64() < d.style.BrakeFrequency*0.3 {
		brake = 0.3 + rng.Float64()*0.6
		throttle *= 0.1
	}
	if emergency {
		brake, throttle = 0.95, 0
	}
	if brake > 0.1 {
		throttle = math.Min(throttle, 0.2)
	}

	return telemetry.Sample{
		SteeringAngle: steering,
		SpeedKmh:      speed,
		RPM:           rpm,
		Throttle:      throttle,
		Brake:         brake,
		Gear:          gear,
		Connected:     true,
	}
}

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
