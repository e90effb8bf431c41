package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/database"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/repository"
)

func newSQLiteRepo(t *testing.T, clock repository.Clock) *repository.SQLRepository {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repository.New(db).WithClock(clock)
}

func TestCreateStoresZeroForMissingFields(t *testing.T) {
	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	repo := newSQLiteRepo(t, func() time.Time { return ts })
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.CreateRequest{PM25: domain.Float(40), CO: domain.Float(1.5)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected storage-assigned id")
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored reading")
	}

	checks := map[string]struct {
		got      *float64
		expected float64
	}{
		"pm2_5": {got.PM25, 40},
		"pm10":  {got.PM10, 0},
		"no2":   {got.NO2, 0},
		"o3":    {got.O3, 0},
		"co":    {got.CO, 1.5},
		"so2":   {got.SO2, 0},
		"nh3":   {got.NH3, 0},
		"pb":    {got.PB, 0},
	}
	for name, c := range checks {
		if c.got == nil {
			t.Errorf("%s stored as NULL", name)
			continue
		}
		if *c.got != c.expected {
			t.Errorf("%s = %v, expected %v", name, *c.got, c.expected)
		}
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %s, expected %s", got.Timestamp, ts)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	repo := newSQLiteRepo(t, time.Now)

	got, err := repo.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestReadsAreNewestFirst(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	repo := newSQLiteRepo(t, func() time.Time { return clock })
	ctx := context.Background()

	for _, offset := range []time.Duration{2 * time.Hour, 26 * time.Hour, 10 * time.Hour, 50 * time.Hour} {
		clock = base.Add(offset)
		if _, err := repo.Create(ctx, domain.CreateRequest{PM10: domain.Float(offset.Hours())}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 readings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.After(all[i-1].Timestamp) {
			t.Errorf("reading %d (%s) is newer than reading %d (%s)",
				i, all[i].Timestamp, i-1, all[i-1].Timestamp)
		}
	}

	day, err := repo.GetAllByDate(ctx, base.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("GetAllByDate: %v", err)
	}
	if len(day) != 2 {
		t.Fatalf("expected 2 readings on day one, got %d", len(day))
	}
	if domain.Value(day[0].PM10) != 10 || domain.Value(day[1].PM10) != 2 {
		t.Errorf("unexpected day order: %v, %v", domain.Value(day[0].PM10), domain.Value(day[1].PM10))
	}

	ranged, err := repo.GetByDateRange(ctx, base.Add(10*time.Hour), base.Add(26*time.Hour))
	if err != nil {
		t.Fatalf("GetByDateRange: %v", err)
	}
	if len(ranged) != 2 {
		t.Errorf("range should be inclusive on both ends, got %d readings", len(ranged))
	}

	empty, err := repo.GetByDateRange(ctx, base.Add(100*time.Hour), base.Add(200*time.Hour))
	if err != nil {
		t.Fatalf("GetByDateRange: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", empty)
	}
}
