package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/gomovies/internal/controller"
	apperrors "github.com/amaumene/gomovies/internal/errors"
	"github.com/amaumene/gomovies/internal/models"
	"github.com/amaumene/gomovies/pkg/logger"
)

type staticFetcher struct{}

func (staticFetcher) FetchPage(_ context.Context, _ string, page int) (*models.MoviePage, error) {
	return &models.MoviePage{
		Page:         page,
		TotalPages:   1,
		TotalResults: 1,
		Results:      []models.Movie{{ID: 1, Title: "Heat"}},
	}, nil
}

func newManager(maxSessions int, ttl time.Duration) *Manager {
	log := logger.NewDiscard()
	factory := func() *controller.Controller {
		return controller.New(staticFetcher{}, nil, controller.Options{Logger: log})
	}
	return NewManager(factory, maxSessions, ttl, log)
}

func TestCreateStartsController(t *testing.T) {
	m := newManager(10, time.Minute)
	defer m.Close()

	s := m.Create()
	require.NotEmpty(t, s.ID)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	state, err := s.Controller.WaitIdle(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Movies, 1)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestGetUnknown(t *testing.T) {
	m := newManager(10, time.Minute)
	defer m.Close()

	_, err := m.Get("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteClosesController(t *testing.T) {
	m := newManager(10, time.Minute)
	defer m.Close()

	s := m.Create()
	updates, _ := s.Controller.Subscribe()

	m.Delete(s.ID)

	_, err := m.Get(s.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-updates:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, 10*time.Millisecond)
}

func TestCapacityEvictsOldest(t *testing.T) {
	m := newManager(2, time.Minute)
	defer m.Close()

	first := m.Create()
	m.Create()
	m.Create()

	assert.Equal(t, 2, m.Len())
	_, err := m.Get(first.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCleanExpired(t *testing.T) {
	m := newManager(10, 20*time.Millisecond)
	defer m.Close()

	m.Create()
	m.Create()
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, 2, m.CleanExpired())
	assert.Zero(t, m.Len())
}
