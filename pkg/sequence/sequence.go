// Package sequence provides per-organization sequential identifier
// generation for assets (e.g. "SAM-0001"). Numbers come from a database
// counter table so they survive restarts and stay monotonic across
// instances.
package sequence

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
)

// DefaultPrefix is the prefix used when the organization has none
// configured.
const DefaultPrefix = "SAM"

// minDigits is the minimum width of the numeric part; larger numbers
// extend naturally (SAM-0001, SAM-12345).
const minDigits = 4

// Strategy defines the number allocation strategy.
type Strategy int

const (
	// StrategyStrict issues one UPSERT ... RETURNING per number.
	// Sequential without gaps, one round trip per asset.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of numbers in memory. Much faster
	// for bulk imports, but restarts leave gaps in the sequence.
	StrategyCached
)

// Options configure number allocation.
type Options struct {
	Strategy Strategy

	// RangeSize is the count of numbers reserved at once in Cached
	// strategy. Default 50.
	RangeSize int64
}

// DefaultOptions returns the strict strategy.
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Querier is the database surface the generator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Generator allocates sequential numbers scoped by key.
type Generator interface {
	// NextID returns the next formatted identifier for the organization,
	// e.g. "SAM-0042".
	NextID(ctx context.Context, organizationID, prefix string) (string, error)
}

type cachedRange struct {
	current int64
	max     int64
}

// Service implements Generator backed by the sequences table.
type Service struct {
	querier Querier
	opts    *Options

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a generator with the given allocation options. Nil options
// mean strict allocation.
func New(querier Querier, opts *Options) *Service {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Service{
		querier: querier,
		opts:    opts,
		ranges:  make(map[string]*cachedRange),
	}
}

// NextID allocates the next number for the organization and formats it.
func (s *Service) NextID(ctx context.Context, organizationID, prefix string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("sequence service is not initialized")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}

	key := fmt.Sprintf("asset:%s", organizationID)

	var num int64
	var err error
	switch s.opts.Strategy {
	case StrategyCached:
		num, err = s.nextCached(ctx, key)
	default:
		num, err = s.nextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return FormatSequentialID(num, prefix), nil
}

// nextStrict fetches the next number with a single UPSERT + RETURNING.
func (s *Service) nextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sequences.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// nextCached serves numbers from a reserved in-memory range, refilling
// from the database when exhausted. current_val in the table tracks the
// last number handed out; reserving bumps it by the range size and the
// reserved interval is (newMax-size, newMax].
func (s *Service) nextCached(ctx context.Context, key string) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, ok := s.ranges[key]
	if !ok {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := s.opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO sequences (key, current_val)
            VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET current_val = sequences.current_val + $2
            RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNext pins the counter for an organization (migration support). Any
// cached range for the key is dropped.
func (s *Service) SetNext(ctx context.Context, organizationID string, value int64) error {
	key := fmt.Sprintf("asset:%s", organizationID)

	var result int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sequences (key, current_val)
        VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET current_val = $2
        RETURNING current_val
	`, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()

	return err
}

var sequentialIDPattern = regexp.MustCompile(`^[A-Z0-9]+-\d+$`)

// FormatSequentialID renders a sequence number as a display identifier,
// padding the numeric part to at least four digits.
func FormatSequentialID(num int64, prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s-%0*d", prefix, minDigits, num)
}

// IsValidSequentialIDFormat reports whether s looks like PREFIX-NNNN with
// an uppercase prefix and a purely numeric tail.
func IsValidSequentialIDFormat(s string) bool {
	return sequentialIDPattern.MatchString(s)
}

// ExtractSequenceNumber returns the numeric part of a sequential id, or
// -1 when the id does not match the expected format.
func ExtractSequenceNumber(s string) int64 {
	if !IsValidSequentialIDFormat(s) {
		return -1
	}
	idx := strings.LastIndexByte(s, '-')
	num, err := strconv.ParseInt(s[idx+1:], 10, 64)
	if err != nil {
		return -1
	}
	return num
}
