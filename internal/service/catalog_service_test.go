package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointly/appointly-api/internal/models"
	appErrors "github.com/appointly/appointly-api/pkg/errors"
)

type mockServiceRepo struct {
	services map[string]models.Service
	seq      int
}

func newMockServiceRepo() *mockServiceRepo {
	return &mockServiceRepo{services: map[string]models.Service{}}
}

func (m *mockServiceRepo) List(ctx context.Context) ([]models.Service, error) {
	out := make([]models.Service, 0, len(m.services))
	for _, svc := range m.services {
		out = append(out, svc)
	}
	return out, nil
}

func (m *mockServiceRepo) FindByID(ctx context.Context, id string) (*models.Service, error) {
	svc, ok := m.services[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &svc, nil
}

func (m *mockServiceRepo) Create(ctx context.Context, svc *models.Service) error {
	m.seq++
	svc.ID = "svc-" + string(rune('0'+m.seq))
	m.services[svc.ID] = *svc
	return nil
}

func (m *mockServiceRepo) Update(ctx context.Context, svc *models.Service) error {
	if _, ok := m.services[svc.ID]; !ok {
		return sql.ErrNoRows
	}
	m.services[svc.ID] = *svc
	return nil
}

func (m *mockServiceRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.services[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.services, id)
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func TestCatalogCreateAndGet(t *testing.T) {
	repo := newMockServiceRepo()
	svc := NewCatalogService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateServiceRequest{
		Name: "Haircut", DurationMinutes: 60, Price: floatPtr(35),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Haircut", got.Name)
	assert.Equal(t, 60, got.DurationMinutes)
}

func TestCatalogCreateRejectsBadDuration(t *testing.T) {
	svc := NewCatalogService(newMockServiceRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateServiceRequest{
		Name: "Blink", DurationMinutes: 2, Price: floatPtr(10),
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.Create(context.Background(), CreateServiceRequest{
		Name: "Marathon", DurationMinutes: 600, Price: floatPtr(10),
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCatalogCreateRejectsNegativePrice(t *testing.T) {
	svc := NewCatalogService(newMockServiceRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateServiceRequest{
		Name: "Freebie", DurationMinutes: 30, Price: floatPtr(-1),
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCatalogUpdatePartial(t *testing.T) {
	repo := newMockServiceRepo()
	svc := NewCatalogService(repo, nil, nil)
	created, err := svc.Create(context.Background(), CreateServiceRequest{
		Name: "Haircut", DurationMinutes: 60, Price: floatPtr(35),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateServiceRequest{DurationMinutes: 45})
	require.NoError(t, err)
	assert.Equal(t, "Haircut", updated.Name)
	assert.Equal(t, 45, updated.DurationMinutes)
	assert.Equal(t, 35.0, updated.Price)
}

func TestCatalogGetMissing(t *testing.T) {
	svc := NewCatalogService(newMockServiceRepo(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCatalogDelete(t *testing.T) {
	repo := newMockServiceRepo()
	svc := NewCatalogService(repo, nil, nil)
	created, err := svc.Create(context.Background(), CreateServiceRequest{
		Name: "Haircut", DurationMinutes: 60, Price: floatPtr(35),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.services)

	err = svc.Delete(context.Background(), created.ID)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
