package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/repository"
	"github.com/rs/zerolog/log"
)

// Validation failures carry the message shown to API callers. Storage
// failures are collapsed into ErrFetchFailed / ErrCreateFailed.
var (
	ErrInvalidID    = errors.New("Invalid AQI id")
	ErrInvalidDate  = errors.New("Invalid date format")
	ErrDateOrder    = errors.New("Start date must be before end date")
	ErrFetchFailed  = errors.New("Failed to fetch AQI data")
	ErrCreateFailed = errors.New("Failed to create AQI data")
)

// IsValidation reports whether err is caused by bad caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidID) || errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrDateOrder)
}

type AQIService struct {
	repo repository.AQIRepository
	loc  *time.Location
}

func New(repo repository.AQIRepository) *AQIService {
	return &AQIService{repo: repo, loc: time.Local}
}

// WithLocation sets the zone used for calendar-day queries and for dates
// given without an offset.
func (s *AQIService) WithLocation(loc *time.Location) *AQIService {
	s.loc = loc
	return s
}

// GetAQIByID returns nil, nil when the id does not exist.
func (s *AQIService) GetAQIByID(ctx context.Context, id string) (*domain.Reading, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, ErrInvalidID
	}

	reading, err := s.repo.Get(ctx, n)
	if err != nil {
		log.Error().Err(err).Int64("id", n).Msg("fetch aqi by id failed")
		return nil, ErrFetchFailed
	}
	return reading, nil
}

func (s *AQIService) GetAllAQI(ctx context.Context) ([]domain.Reading, error) {
	readings, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("fetch all aqi failed")
		return nil, ErrFetchFailed
	}
	return readings, nil
}

// GetAQIByDate returns the readings of the calendar day that contains date.
func (s *AQIService) GetAQIByDate(ctx context.Context, date string) ([]domain.Reading, error) {
	day, err := s.ParseDate(date)
	if err != nil {
		return nil, err
	}

	readings, err := s.repo.GetAllByDate(ctx, day.In(s.loc))
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("fetch aqi by date failed")
		return nil, ErrFetchFailed
	}
	return readings, nil
}

func (s *AQIService) GetAQIByDateRange(ctx context.Context, startDate, endDate string) ([]domain.Reading, error) {
	start, err := s.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := s.ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrDateOrder
	}

	readings, err := s.repo.GetByDateRange(ctx, start, end)
	if err != nil {
		log.Error().Err(err).Str("start", startDate).Str("end", endDate).Msg("fetch aqi by range failed")
		return nil, ErrFetchFailed
	}
	return readings, nil
}

// GetLatestAQI returns the reading with the greatest timestamp, or nil when
// nothing is stored.
func (s *AQIService) GetLatestAQI(ctx context.Context) (*domain.Reading, error) {
	readings, err := s.GetAllAQI(ctx)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, nil
	}

	sort.SliceStable(readings, func(i, j int) bool {
		return sortKey(readings[i].Timestamp).After(sortKey(readings[j].Timestamp))
	})
	latest := readings[0]
	return &latest, nil
}

func sortKey(t time.Time) time.Time {
	if t.IsZero() {
		return time.Unix(0, 0)
	}
	return t
}

func (s *AQIService) CreateAQI(ctx context.Context, req domain.CreateRequest) (*domain.Reading, error) {
	reading, err := s.repo.Create(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("create aqi failed")
		return nil, ErrCreateFailed
	}
	return reading, nil
}

// CalculateAQILevel classifies a reading by PM2.5 alone; a missing value
// counts as 0.
func (s *AQIService) CalculateAQILevel(r domain.Reading) domain.Level {
	return domain.LevelFor(domain.Value(r.PM25))
}

func (s *AQIService) WithLevel(r domain.Reading) domain.ReadingWithLevel {
	return domain.ReadingWithLevel{Reading: r, Level: s.CalculateAQILevel(r)}
}

// WithLevels never returns nil so handlers always encode an array.
func (s *AQIService) WithLevels(rs []domain.Reading) []domain.ReadingWithLevel {
	out := make([]domain.ReadingWithLevel, 0, len(rs))
	for _, r := range rs {
		out = append(out, s.WithLevel(r))
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps and plain dates. Values without an
// offset are read in the service location.
func (s *AQIService) ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, s.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
