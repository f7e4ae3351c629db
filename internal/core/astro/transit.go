package astro

import (
	"fmt"
	"sort"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// CurrentActivations compares the moving sky on a scrub date against fixed
// natal positions. Every (transiting, natal) pair of classical bodies is
// checked against the five classical aspect angles; the nearest aspect's
// residual decides the intensity grade via the orb table, and pairs outside
// their aspect's orb are excluded. The scrub date is evaluated at noon
// local mean time on the natal longitude, the same convention the birth
// instant uses. Results come back sorted by residual, tightest first.
func CurrentActivations(natalDate domain.CivilDate, natalTime domain.CivilTime, natalLon float64, scrubDate domain.CivilDate, th Thresholds) ([]domain.LineActivation, error) {
	natal, err := Positions(natalDate, natalTime, natalLon, false)
	if err != nil {
		return nil, fmt.Errorf("natal positions: %w", err)
	}
	noon := domain.CivilTime{Hour: 12}
	transiting, err := Positions(scrubDate, noon, natalLon, false)
	if err != nil {
		return nil, fmt.Errorf("transit positions: %w", err)
	}

	var activations []domain.LineActivation
	for _, t := range transiting {
		for _, n := range natal {
			sep := angularSeparation(t.EclipticLon, n.EclipticLon)
			aspect, residual := nearestAspect(sep)
			orb := th.Orbs.ForAspect(aspect)
			if residual > orb {
				continue
			}
			activations = append(activations, domain.LineActivation{
				Transiting: t.Planet,
				Natal:      n.Planet,
				Aspect:     aspect,
				Intensity:  th.grade(residual / orb),
				Residual:   residual,
			})
		}
	}

	sort.Slice(activations, func(i, j int) bool {
		a, b := activations[i], activations[j]
		if a.Residual != b.Residual {
			return a.Residual < b.Residual
		}
		if a.Transiting != b.Transiting {
			return a.Transiting < b.Transiting
		}
		return a.Natal < b.Natal
	})
	return activations, nil
}

// nearestAspect picks the classical aspect whose angle is closest to the
// separation. Ties keep the earlier aspect in the canonical order, so the
// result is deterministic.
func nearestAspect(separation float64) (domain.Aspect, float64) {
	best := domain.Conjunction
	bestResidual := separation
	for _, a := range domain.Aspects() {
		r := separation - a.Angle()
		if r < 0 {
			r = -r
		}
		if r < bestResidual {
			best = a
			bestResidual = r
		}
	}
	return best, bestResidual
}
