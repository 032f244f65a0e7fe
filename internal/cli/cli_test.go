package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"homeclean/internal/config"
	"homeclean/internal/docstore"
	"homeclean/internal/docstore/docstoretest"
	"homeclean/internal/domain"
	"homeclean/internal/repository"
)

func openerFor(store *docstore.Store) Opener {
	return func(ctx context.Context) (*Env, func(), error) {
		cfg := &config.Config{
			AppEnv:             "test",
			JWTSecret:          "test-secret",
			SessionTTL:         time.Hour,
			PlatformFeePercent: 15,
		}
		return &Env{Config: cfg, Log: zap.NewNop(), Store: store}, func() {}, nil
	}
}

func execute(t *testing.T, store *docstore.Store, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(openerFor(store))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := docstoretest.New(t)
	houses := repository.NewHouseRepository(src)
	require.NoError(t, houses.Create(ctx, &domain.House{UserID: "u1", Address: domain.Address{Street: "1 Elm", City: "Dallas"}}))
	require.NoError(t, houses.Create(ctx, &domain.House{UserID: "u1", Address: domain.Address{Street: "2 Oak", City: "Dallas"}}))

	path := filepath.Join(t.TempDir(), "backup.json")
	_, err := execute(t, src, "export", "--out", path)
	require.NoError(t, err)

	dst := docstoretest.New(t)
	out, err := execute(t, dst, "import", "--in", path)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 documents")

	list, err := repository.NewHouseRepository(dst).ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestExportReportsWriteFailures(t *testing.T) {
	store := docstoretest.New(t)
	require.NoError(t, repository.NewHouseRepository(store).Create(context.Background(), &domain.House{UserID: "u1"}))

	_, err := execute(t, store, "export", "--out", filepath.Join(t.TempDir(), "missing", "backup.json"))
	assert.Error(t, err)

	if _, statErr := os.Stat("/dev/full"); statErr != nil {
		t.Skip("no /dev/full on this system")
	}
	_, err = execute(t, store, "export", "--out", "/dev/full")
	assert.Error(t, err)
}

func TestImportRequiresFile(t *testing.T) {
	_, err := execute(t, docstoretest.New(t), "import")
	assert.Error(t, err)

	_, err = execute(t, docstoretest.New(t), "import", "--in", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := docstoretest.New(t)
	houses := repository.NewHouseRepository(store)
	require.NoError(t, houses.Create(ctx, &domain.House{UserID: "u1"}))

	_, err := execute(t, store, "clear")
	require.Error(t, err)
	list, err := houses.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	out, err := execute(t, store, "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "database cleared")
	list, err = houses.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	store := docstoretest.New(t)
	repo := repository.NewNotificationRepository(store)
	old := time.Now().Add(-60 * 24 * time.Hour)
	require.NoError(t, repo.Create(ctx, &domain.Notification{UserID: "u1", Type: domain.NotifJobOffer, Read: true, CreatedAt: old}))
	require.NoError(t, repo.Create(ctx, &domain.Notification{UserID: "u1", Type: domain.NotifJobOffer, Read: true}))

	out, err := execute(t, store, "prune", "--older-than", "720h")
	require.NoError(t, err)
	assert.Contains(t, out, "pruned 1 notifications")

	_, err = execute(t, store, "prune", "--older-than", "0s")
	assert.Error(t, err)
}

func TestSimulateTrip(t *testing.T) {
	ctx := context.Background()
	store := docstoretest.New(t)
	repos := repository.New(store)

	lat, lng := 32.7767, -96.797
	house := &domain.House{UserID: "cust", Address: domain.Address{Street: "1 Elm", City: "Dallas", Lat: &lat, Lng: &lng}}
	require.NoError(t, repos.Houses.Create(ctx, house))
	b := &domain.Booking{
		BookingID:     "HC-1",
		CustomerID:    "cust",
		CleanerID:     "cp1",
		CleanerUserID: "clean",
		HouseID:       house.ID,
		Status:        domain.BookingConfirmed,
		TotalAmount:   120,
	}
	require.NoError(t, repos.Bookings.Create(ctx, b))

	out, err := execute(t, store, "simulate-trip", b.ID,
		"--from-lat=32.80", "--from-lng=-96.75", "--steps", "3", "--interval", "1ms")
	require.NoError(t, err)
	assert.Contains(t, out, "is arrived")

	got, err := repos.Bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingArrived, got.Status)
	require.NotNil(t, got.Tracking)
	require.NotNil(t, got.Tracking.Distance)
	assert.Zero(t, *got.Tracking.Distance)
}

func TestSimulateTripWithoutDestination(t *testing.T) {
	ctx := context.Background()
	store := docstoretest.New(t)
	repos := repository.New(store)

	house := &domain.House{UserID: "cust", Address: domain.Address{Street: "1 Elm", City: "Dallas"}}
	require.NoError(t, repos.Houses.Create(ctx, house))
	b := &domain.Booking{CustomerID: "cust", HouseID: house.ID, Status: domain.BookingConfirmed}
	require.NoError(t, repos.Bookings.Create(ctx, b))

	_, err := execute(t, store, "simulate-trip", b.ID, "--from-lat=32.8", "--from-lng=-96.7")
	assert.Error(t, err)
}
