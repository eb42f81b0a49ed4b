package feed

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// Rect is an axis-aligned box in viewport coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

func (r Rect) intersect(o Rect) Rect {
	x1, y1 := max(r.X, o.X), max(r.Y, o.Y)
	x2, y2 := min(r.X+r.Width, o.X+o.Width), min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

type length struct {
	value   float64
	percent bool
}

func (l length) resolve(base float64) float64 {
	if l.percent {
		return base * l.value / 100
	}
	return l.value
}

// Margin grows (positive) or shrinks (negative) the viewport before
// intersections are computed. Percentages refer to the viewport size.
type Margin struct {
	top, right, bottom, left length
}

// ParseMargin parses a CSS-style margin of one to four "px" or "%" lengths,
// e.g. "-10% 0px -10% 0px".
func ParseMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Margin{}, nil
	}
	if len(fields) > 4 {
		return Margin{}, domain.NewValidationError("root_margin", "at most four lengths")
	}

	ls := make([]length, len(fields))
	for i, f := range fields {
		l, err := parseLength(f)
		if err != nil {
			return Margin{}, err
		}
		ls[i] = l
	}

	switch len(ls) {
	case 1:
		return Margin{ls[0], ls[0], ls[0], ls[0]}, nil
	case 2:
		return Margin{ls[0], ls[1], ls[0], ls[1]}, nil
	case 3:
		return Margin{ls[0], ls[1], ls[2], ls[1]}, nil
	default:
		return Margin{ls[0], ls[1], ls[2], ls[3]}, nil
	}
}

func parseLength(s string) (length, error) {
	var l length
	num := s
	switch {
	case strings.HasSuffix(s, "%"):
		l.percent = true
		num = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	case s != "0":
		return length{}, domain.NewValidationError("root_margin", fmt.Sprintf("length %q needs px or %%", s))
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return length{}, domain.NewValidationError("root_margin", fmt.Sprintf("invalid length %q", s))
	}
	l.value = v
	return l, nil
}

// Apply returns root adjusted by the margin.
func (m Margin) Apply(root Rect) Rect {
	top := m.top.resolve(root.Height)
	bottom := m.bottom.resolve(root.Height)
	left := m.left.resolve(root.Width)
	right := m.right.resolve(root.Width)
	return Rect{
		X:      root.X - left,
		Y:      root.Y - top,
		Width:  root.Width + left + right,
		Height: root.Height + top + bottom,
	}
}

// IntersectionRatio returns the share of target inside the margin-adjusted root.
func IntersectionRatio(target, root Rect, m Margin) float64 {
	a := target.area()
	if a == 0 {
		return 0
	}
	return target.intersect(m.Apply(root)).area() / a
}

// VisibilityChange reports an item entering or leaving the eligible set.
type VisibilityChange struct {
	ID       uuid.UUID
	Eligible bool
	Ratio    float64
}

// VisibilityTracker keeps the set of items whose intersection ratio is at
// least the threshold. Only eligible items may autoplay; several can be
// eligible at once, and anything leaving the set must pause.
type VisibilityTracker struct {
	threshold float64
	margin    Margin
	onChange  func(VisibilityChange)

	mu       sync.Mutex
	seq      int64
	ratios   map[uuid.UUID]float64
	eligible map[uuid.UUID]int64
}

// NewVisibilityTracker creates a tracker. onChange may be nil; it is called
// outside the tracker's lock, in report order.
func NewVisibilityTracker(cfg config.FeedConfig, onChange func(VisibilityChange)) (*VisibilityTracker, error) {
	threshold := cfg.VisibilityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.5
	}
	margin, err := ParseMargin(cfg.RootMargin)
	if err != nil {
		return nil, err
	}
	return &VisibilityTracker{
		threshold: threshold,
		margin:    margin,
		onChange:  onChange,
		ratios:    make(map[uuid.UUID]float64),
		eligible:  make(map[uuid.UUID]int64),
	}, nil
}

// Report records the latest intersection ratio of id. It returns true when
// the item entered or left the eligible set.
func (t *VisibilityTracker) Report(id uuid.UUID, ratio float64) bool {
	t.mu.Lock()
	t.ratios[id] = ratio
	_, was := t.eligible[id]
	is := ratio >= t.threshold
	switch {
	case is && !was:
		t.seq++
		t.eligible[id] = t.seq
	case !is && was:
		delete(t.eligible, id)
	}
	t.mu.Unlock()

	if is == was {
		return false
	}
	if t.onChange != nil {
		t.onChange(VisibilityChange{ID: id, Eligible: is, Ratio: ratio})
	}
	return true
}

// Observe computes the ratio of an item's box against the viewport and reports it.
func (t *VisibilityTracker) Observe(id uuid.UUID, target, viewport Rect) bool {
	return t.Report(id, IntersectionRatio(target, viewport, t.margin))
}

// Remove forgets id, pausing it if it was eligible.
func (t *VisibilityTracker) Remove(id uuid.UUID) {
	t.mu.Lock()
	_, was := t.eligible[id]
	delete(t.eligible, id)
	delete(t.ratios, id)
	t.mu.Unlock()

	if was && t.onChange != nil {
		t.onChange(VisibilityChange{ID: id})
	}
}

// IsEligible reports whether id may autoplay.
func (t *VisibilityTracker) IsEligible(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.eligible[id]
	return ok
}

// Eligible returns the eligible items in the order they entered the set.
func (t *VisibilityTracker) Eligible() []uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(t.eligible))
	for id := range t.eligible {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return int(t.eligible[a] - t.eligible[b])
	})
	return ids
}

// Ratio returns the last reported ratio of id.
func (t *VisibilityTracker) Ratio(id uuid.UUID) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ratios[id]
}
