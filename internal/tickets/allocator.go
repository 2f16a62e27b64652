package tickets

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/parkline-app/parkline-backend/pkg/config"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
)

type occupiedSpotsReader interface {
	OccupiedSpots(ctx context.Context) ([]string, error)
}

// Allocator picks a free spot from the site's fixed pool. The pick is a
// heuristic only; the partial unique index on tickets.spot_number is what
// actually guarantees exclusivity, so callers retry on a spot conflict.
type Allocator struct {
	spots []string
	repo  occupiedSpotsReader

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAllocator builds an allocator over the configured spot pool.
func NewAllocator(site config.SiteConfig, repo occupiedSpotsReader) (*Allocator, error) {
	if repo == nil {
		return nil, fmt.Errorf("occupied spots reader required")
	}
	if site.SpotCapacity <= 0 {
		return nil, fmt.Errorf("spot capacity must be positive, got %d", site.SpotCapacity)
	}

	spots := make([]string, 0, site.SpotCapacity)
	for i := 1; i <= site.SpotCapacity; i++ {
		spots = append(spots, fmt.Sprintf("%s%d", site.SpotPrefix, i))
	}

	return &Allocator{
		spots: spots,
		repo:  repo,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Allocate returns a random currently-free spot, or a lot-full error when
// every spot is occupied.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	occupied, err := a.repo.OccupiedSpots(ctx)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read occupied spots")
	}

	taken := make(map[string]struct{}, len(occupied))
	for _, spot := range occupied {
		taken[spot] = struct{}{}
	}

	free := make([]string, 0, len(a.spots))
	for _, spot := range a.spots {
		if _, ok := taken[spot]; !ok {
			free = append(free, spot)
		}
	}
	if len(free) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeLotFull, "no parking spots available")
	}

	a.mu.Lock()
	idx := a.rng.Intn(len(free))
	a.mu.Unlock()
	return free[idx], nil
}

// Capacity returns the size of the spot pool.
func (a *Allocator) Capacity() int {
	return len(a.spots)
}
