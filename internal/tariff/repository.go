package tariff

import (
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"lexbill/internal/domain"
)

type scheduleKey struct {
	court domain.CourtType
	scale domain.TariffScale
}

// Resolution is the outcome of a rate lookup. FallbackApplied marks the
// tolerant nearest-earlier-version path; FuzzyMatched marks a lookup
// that matched by label/description substring rather than item code.
// Both are degraded modes that callers should log.
type Resolution struct {
	Item            domain.TariffRateItem
	Version         *domain.TariffVersion
	FallbackApplied bool
	FuzzyMatched    bool
}

type snapshot struct {
	schedules map[scheduleKey]*domain.TariffSchedule
}

// Repository resolves tariff rates from an immutable in-memory snapshot
// of the published schedules. Safe for concurrent reads; Reload swaps
// the snapshot atomically so in-flight lookups never observe a
// half-updated schedule.
type Repository struct {
	snap atomic.Pointer[snapshot]
}

// NewRepository builds a repository from the given schedules.
func NewRepository(schedules []domain.TariffSchedule) *Repository {
	r := &Repository{}
	r.Reload(schedules)
	return r
}

// Reload replaces the entire schedule snapshot. Versions are re-sorted
// by EffectiveFrom descending so resolution can scan newest-first.
func (r *Repository) Reload(schedules []domain.TariffSchedule) {
	m := make(map[scheduleKey]*domain.TariffSchedule, len(schedules))
	for i := range schedules {
		s := schedules[i]
		sort.SliceStable(s.Versions, func(a, b int) bool {
			return s.Versions[a].EffectiveFrom.After(s.Versions[b].EffectiveFrom)
		})
		m[scheduleKey{s.CourtType, s.Scale}] = &s
	}
	r.snap.Store(&snapshot{schedules: m})
}

// Schedules returns the current snapshot's schedules, read-only.
func (r *Repository) Schedules() []domain.TariffSchedule {
	snap := r.snap.Load()
	out := make([]domain.TariffSchedule, 0, len(snap.schedules))
	for _, s := range snap.schedules {
		out = append(out, *s)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CourtType != out[b].CourtType {
			return out[a].CourtType < out[b].CourtType
		}
		return out[a].Scale < out[b].Scale
	})
	return out
}

// ResolveRate finds the rate in force on the work date for an item code.
//
// Version selection prefers the version whose [EffectiveFrom,
// EffectiveTo) range contains the date; when no range matches (a work
// date in a gap between versions, or before a version boundary), the
// most recent version with EffectiveFrom <= date is used and the
// resolution is flagged FallbackApplied. A date before every recorded
// version yields ErrNoTariffInForce.
//
// Item lookup is exact by code first, then a case-insensitive substring
// match against label and description in the version's item order.
func (r *Repository) ResolveRate(court domain.CourtType, scale domain.TariffScale, itemCode string, onDate time.Time) (*Resolution, error) {
	snap := r.snap.Load()
	sched, ok := snap.schedules[scheduleKey{court, scale}]
	if !ok {
		return nil, domain.ErrScheduleNotFound
	}

	version, fallback := selectVersion(sched, onDate)
	if version == nil {
		return nil, domain.ErrNoTariffInForce
	}

	item, fuzzy, ok := findItem(version, itemCode)
	if !ok {
		return nil, domain.ErrItemNotFound
	}

	return &Resolution{
		Item:            item,
		Version:         version,
		FallbackApplied: fallback,
		FuzzyMatched:    fuzzy,
	}, nil
}

// selectVersion scans newest-first: an exact range match wins; otherwise
// the first (i.e. most recent) version starting on or before the date
// is the fallback.
func selectVersion(sched *domain.TariffSchedule, onDate time.Time) (*domain.TariffVersion, bool) {
	var nearest *domain.TariffVersion
	for i := range sched.Versions {
		v := &sched.Versions[i]
		if v.InForceOn(onDate) {
			return v, false
		}
		if nearest == nil && !onDate.Before(v.EffectiveFrom) {
			nearest = v
		}
	}
	if nearest != nil {
		return nearest, true
	}
	return nil, false
}

func findItem(version *domain.TariffVersion, itemCode string) (domain.TariffRateItem, bool, bool) {
	for i := range version.Items {
		if version.Items[i].ItemCode == itemCode {
			return version.Items[i], false, true
		}
	}
	needle := strings.ToLower(strings.TrimSpace(itemCode))
	if needle == "" {
		return domain.TariffRateItem{}, false, false
	}
	for i := range version.Items {
		it := &version.Items[i]
		if strings.Contains(strings.ToLower(it.Label), needle) ||
			strings.Contains(strings.ToLower(it.Description), needle) {
			return *it, true, true
		}
	}
	return domain.TariffRateItem{}, false, false
}
