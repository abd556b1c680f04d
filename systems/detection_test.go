package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/fermi/components"
)

func TestInAnnulus(t *testing.T) {
	tests := []struct {
		name      string
		dist      float64
		radius    int
		thickness int
		want      bool
	}{
		{"outer edge", 10, 10, 3, true},
		{"inner edge", 7, 10, 3, true},
		{"inside front", 8.5, 10, 3, true},
		{"beyond front", 10.01, 10, 3, false},
		{"behind front", 6.99, 10, 3, false},
		{"inner clamped to zero", 0, 2, 3, true},
		{"zero thickness ring", 5, 5, 0, true},
		{"zero thickness miss", 4.9, 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InAnnulus(tt.dist, tt.radius, tt.thickness); got != tt.want {
				t.Errorf("InAnnulus(%g, %d, %d) = %v, want %v", tt.dist, tt.radius, tt.thickness, got, tt.want)
			}
		})
	}
}

func TestDetectsIsDirectional(t *testing.T) {
	const thickness = 3
	young := components.Signal{Active: true, Radius: 2}
	old := components.Signal{Active: true, Radius: 20}

	// young listens (radius within window) and dist is inside old's front
	if !Detects(18, &young, &old, thickness) {
		t.Error("young should detect old at distance 18")
	}
	// old cannot listen any more
	if Detects(18, &old, &young, thickness) {
		t.Error("old should not detect: its radius is past the listening window")
	}
	// young's front does not reach 18 either
	if Detects(18, &young, &young, thickness) {
		t.Error("distance outside the source front must not detect")
	}
}

func TestListenerEligible(t *testing.T) {
	capable := components.Lifespan{T0: 0, TIntel: 5}
	incapable := components.Lifespan{T0: 9, TIntel: 5}
	active := components.Signal{Active: true, Radius: 1}
	idle := components.Signal{}

	if !(Listener{Life: &capable, Signal: &active}).Eligible() {
		t.Error("active capable listener should be eligible")
	}
	if (Listener{Life: &capable, Signal: &idle}).Eligible() {
		t.Error("inactive signal should not be eligible")
	}
	if (Listener{Life: &incapable, Signal: &active}).Eligible() {
		t.Error("born-broadcasting civilization should not be eligible")
	}
}

func TestClassifyArrival(t *testing.T) {
	capable := components.Lifespan{T0: 0, TIntel: 5}
	incapable := components.Lifespan{T0: 9, TIntel: 5}

	if got := ClassifyArrival(&capable, &components.Signal{Radius: 3}, 3); got != ArrivalContact {
		t.Errorf("radius at window edge = %v, want contact", got)
	}
	if got := ClassifyArrival(&capable, &components.Signal{Radius: 0}, 3); got != ArrivalContact {
		t.Errorf("not yet broadcasting = %v, want contact", got)
	}
	if got := ClassifyArrival(&capable, &components.Signal{Radius: 4}, 3); got != ArrivalVisit {
		t.Errorf("window missed = %v, want visit", got)
	}
	if got := ClassifyArrival(&incapable, &components.Signal{}, 3); got != ArrivalVisit {
		t.Errorf("incapable target = %v, want visit", got)
	}
}

func TestMatchesDestination(t *testing.T) {
	ship := Launch(0, 0, 10, 10, 1, 0)
	if !MatchesDestination(&components.Position{X: 10.5, Y: 9.5}, &ship, 1) {
		t.Error("position within tolerance should match")
	}
	if MatchesDestination(&components.Position{X: 11, Y: 10}, &ship, 1) {
		t.Error("tolerance is strict on each axis")
	}
}

func TestRandomPointInDisk(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const radius = 50.0
	var sumX, sumY float64
	const n = 5000
	for i := 0; i < n; i++ {
		x, y := RandomPointInDisk(rng, radius)
		if math.Hypot(x, y) > radius {
			t.Fatalf("point (%g, %g) outside disk", x, y)
		}
		sumX += x
		sumY += y
	}
	// Uniform sampling is centred on the origin
	if math.Abs(sumX/n) > 2 || math.Abs(sumY/n) > 2 {
		t.Errorf("mean = (%g, %g), want near origin", sumX/n, sumY/n)
	}
}
