package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fermi/components"
	"github.com/pthm-cable/fermi/systems"
)

// spawn creates a civilization entity. Age starts at t0.
func (s *Simulation) spawn(x, y float64, t0, tStart, tIntel, tEnd int) ecs.Entity {
	civ := components.Civilization{ID: s.nextID}
	s.nextID++

	pos := components.Position{X: x, Y: y}
	life := components.Lifespan{T0: t0, TStart: tStart, TIntel: tIntel, TEnd: tEnd, T: t0}
	sig := components.Signal{}
	det := components.Detection{}
	fleet := components.Fleet{}

	entity := s.civMapper.NewEntity(&civ, &pos, &life, &sig, &det, &fleet)
	s.population++
	return entity
}

// spawnRandom creates a civilization at a random point of the disk with
// random intelligence delay and lifetime.
func (s *Simulation) spawnRandom(t0, tStart int) ecs.Entity {
	d := &s.cfg.Derived
	x, y := systems.RandomPointInDisk(s.rng, s.cfg.Galaxy.Radius)
	tIntel := d.IntelDelaySteps.Draw(s.rng)
	tEnd := d.LifetimeSteps.Draw(s.rng)
	return s.spawn(x, y, t0, tStart, tIntel, tEnd)
}

// spawnFounders creates the founding candidates with random initial ages.
func (s *Simulation) spawnFounders(n int) {
	for i := 0; i < n; i++ {
		s.spawnRandom(s.cfg.Derived.InitialAgeSteps.Draw(s.rng), 0)
	}
}

// prune removes civilizations that reached their end of life. On the
// founding step it also truncates the survivors to the target population,
// keeping the first ones in creation order.
// Returns the number of deaths and the number of truncated survivors.
func (s *Simulation) prune(founding bool) (deaths, truncated int) {
	target := s.cfg.Galaxy.Population

	// First pass: collect (no structural changes during a query)
	var toRemove []ecs.Entity
	kept := 0

	query := s.civFilter.Query()
	for query.Next() {
		_, _, life, _, _, _ := query.Get()

		switch {
		case life.Expired():
			toRemove = append(toRemove, query.Entity())
			deaths++
		case founding && kept >= target:
			toRemove = append(toRemove, query.Entity())
			truncated++
		default:
			kept++
		}
	}

	// Second pass: remove entities (query iteration complete)
	for _, e := range toRemove {
		s.world.RemoveEntity(e)
		s.population--
	}

	if founding && truncated > 0 {
		s.logger.Debug("founding_truncated", "survivors", kept, "truncated", truncated, "expired", deaths)
	}
	return deaths, truncated
}

// replenish creates entrants until the target population is reached.
// Returns the number of civilizations created.
func (s *Simulation) replenish(step int) int {
	births := 0
	for s.population < s.cfg.Galaxy.Population {
		s.spawnRandom(0, step)
		births++
	}
	if births > 0 {
		s.logger.Debug("replenished", "step", step, "births", births, "population", s.population)
	}
	return births
}

// collectLive caches component pointers of every live civilization.
func (s *Simulation) collectLive() {
	s.live = s.live[:0]
	query := s.civFilter.Query()
	for query.Next() {
		civ, pos, life, sig, det, fleet := query.Get()
		s.live = append(s.live, civRef{
			entity: query.Entity(),
			civ:    civ,
			pos:    pos,
			life:   life,
			sig:    sig,
			det:    det,
			fleet:  fleet,
		})
	}
}
