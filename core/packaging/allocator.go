// Package packaging allocates slab units across the two physical container
// types, crates and A-frames, under their per-container unit capacities.
package packaging

import (
	"fmt"

	"tilerate/internal/errors"
)

// ContainerType identifies a physical container kind.
type ContainerType string

const (
	Crate  ContainerType = "crate"
	AFrame ContainerType = "a-frame"
)

// Preference is the caller's packaging choice.
type Preference string

const (
	PreferAuto   Preference = "auto"
	PreferCrate  Preference = "crate"
	PreferAFrame Preference = "a-frame"
)

// ParsePreference validates a packaging preference string. Empty means auto.
func ParsePreference(s string) (Preference, error) {
	switch Preference(s) {
	case PreferAuto, PreferCrate, PreferAFrame:
		return Preference(s), nil
	case "":
		return PreferAuto, nil
	}
	return "", errors.Validationf("unsupported packaging preference: %q", s)
}

// Container is one allocated container with its achieved fill.
type Container struct {
	Type          ContainerType `json:"container_type"`
	Capacity      int           `json:"capacity"`
	UnitsAssigned int           `json:"units_assigned"`
}

// Breakdown is the allocation result: the ordered container list, aggregate
// counts per type, and warnings for any capacity fallback taken.
type Breakdown struct {
	Containers  []Container           `json:"containers"`
	CountByType map[ContainerType]int `json:"count_by_type"`
	Warnings    []string              `json:"-"`
}

// Total returns the total container count.
func (b *Breakdown) Total() int {
	return len(b.Containers)
}

// Units returns the total units assigned across all containers.
func (b *Breakdown) Units() int {
	n := 0
	for _, c := range b.Containers {
		n += c.UnitsAssigned
	}
	return n
}

// Allocate distributes units across containers. A capacity is valid only
// when it is a positive integer; an invalid capacity makes that container
// type ineligible regardless of preference.
//
// Auto preference: a single container when either type can hold the whole
// shipment (crate first), otherwise as many full A-frames as fit with the
// remainder going to one crate when it fits there, or to one more partially
// filled A-frame when it does not. Large shipments therefore favor A-frames.
//
// Manual preference: uniform ceil(units/capacity) split over the requested
// type, falling back to the other type with a warning when the requested
// type has no valid capacity.
func Allocate(units, crateCap, aframeCap int, pref Preference) (*Breakdown, error) {
	if units <= 0 {
		return nil, errors.Validation("units must be > 0")
	}
	crateOK := crateCap > 0
	aframeOK := aframeCap > 0
	if !crateOK && !aframeOK {
		return nil, errors.Validation("no container type has a valid capacity")
	}

	b := &Breakdown{CountByType: make(map[ContainerType]int)}

	switch pref {
	case PreferCrate:
		if !crateOK {
			b.warnf("crate capacity unavailable, falling back to a-frame packaging")
			b.uniform(units, AFrame, aframeCap)
			return b, nil
		}
		b.uniform(units, Crate, crateCap)
		return b, nil

	case PreferAFrame:
		if !aframeOK {
			b.warnf("a-frame capacity unavailable, falling back to crate packaging")
			b.uniform(units, Crate, crateCap)
			return b, nil
		}
		b.uniform(units, AFrame, aframeCap)
		return b, nil
	}

	// Auto.
	if crateOK && units <= crateCap {
		b.add(Crate, crateCap, units)
		return b, nil
	}
	if aframeOK && units <= aframeCap {
		b.add(AFrame, aframeCap, units)
		return b, nil
	}

	// Whole shipment fits in neither type. Without a valid A-frame capacity
	// the only option left is a uniform crate split.
	if !aframeOK {
		b.warnf("a-frame capacity unavailable, packing %d units into crates only", units)
		b.uniform(units, Crate, crateCap)
		return b, nil
	}

	full := units / aframeCap
	remainder := units % aframeCap
	for i := 0; i < full; i++ {
		b.add(AFrame, aframeCap, aframeCap)
	}
	if remainder > 0 {
		if crateOK && remainder <= crateCap {
			b.add(Crate, crateCap, remainder)
		} else {
			b.add(AFrame, aframeCap, remainder)
		}
	}
	return b, nil
}

func (b *Breakdown) add(t ContainerType, capacity, assigned int) {
	b.Containers = append(b.Containers, Container{Type: t, Capacity: capacity, UnitsAssigned: assigned})
	b.CountByType[t]++
}

// uniform splits units over ceil(units/capacity) containers of one type,
// with the last container holding the remainder.
func (b *Breakdown) uniform(units int, t ContainerType, capacity int) {
	count := (units + capacity - 1) / capacity
	remaining := units
	for i := 0; i < count; i++ {
		assigned := capacity
		if remaining < capacity {
			assigned = remaining
		}
		b.add(t, capacity, assigned)
		remaining -= assigned
	}
}

func (b *Breakdown) warnf(format string, args ...interface{}) {
	b.Warnings = append(b.Warnings, fmt.Sprintf(format, args...))
}
