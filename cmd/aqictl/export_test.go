package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
)

type memArchive map[string][]domain.ReadingWithLevel

func (m memArchive) DownloadArchive(_ context.Context, key string) ([]domain.ReadingWithLevel, error) {
	readings, ok := m[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return readings, nil
}

func TestShowArchive(t *testing.T) {
	asJSON = false
	store := memArchive{
		"aqi/2024/01/15.json": {
			{Reading: domain.Reading{ID: 7, PM25: domain.Float(160), Timestamp: time.Now().Add(-48 * time.Hour)}, Level: domain.LevelVeryUnhealthy},
			{Reading: domain.Reading{ID: 6, PM25: domain.Float(8), Timestamp: time.Now().Add(-49 * time.Hour)}, Level: domain.LevelGood},
		},
	}

	var buf bytes.Buffer
	if err := showArchive(context.Background(), &buf, store, "aqi/2024/01/15.json"); err != nil {
		t.Fatalf("showArchive: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"160.00", "Very Unhealthy", "Good", "2 readings"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if err := showArchive(context.Background(), &buf, store, "aqi/missing.json"); err == nil {
		t.Error("expected error for missing archive")
	}
}
