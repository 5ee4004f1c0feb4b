package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/framecast/framecast/icon"
	"github.com/framecast/framecast/key"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// sectionOrder lists config sections in the order they are presented.
var sectionOrder = []string{
	"video", "frames", "metadata", "platform",
	"throttle", "prefetch", "unlock",
	"player", "session", "icons", "logs", "cli",
}

// Section returns the section a key belongs to, e.g. "throttle" for "throttle.cache_size".
func Section(k string) string {
	section, _, _ := strings.Cut(k, ".")
	return section
}

// Sections returns the known sections in presentation order.
func Sections() []string {
	return lo.Filter(sectionOrder, func(s string, _ int) bool {
		return len(InSection(s)) > 0
	})
}

// InSection returns the fields of a section sorted by key.
func InSection(section string) []Field {
	fields := lo.Filter(lo.Values(Default), func(f Field, _ int) bool {
		return Section(f.Key) == section
	})
	return sortFields(fields)
}

func sortFields(fields []Field) []Field {
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Key < fields[j].Key
	})
	return fields
}

// atLeastOne holds counts, capacities and rates that stop working at zero.
var atLeastOne = []string{
	key.FramesFPS,
	key.ThrottleStrictPrefetchStride,
	key.ThrottlePrefetchStride,
	key.ThrottlePrefetchDepth,
	key.ThrottleStrictCacheSize,
	key.ThrottleCacheSize,
	key.PrefetchWorkers,
	key.PrefetchQueue,
	key.PrefetchPerSecond,
	key.PlayerTickHz,
}

// Parse converts raw CLI input into a value of the key's type and checks it
// against the key's bounds.
func Parse(k string, raw []string) (any, error) {
	field, ok := Default[k]
	if !ok {
		return nil, fmt.Errorf("unknown key %s", k)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: no value given", k)
	}

	switch field.Value.(type) {
	case string:
		return raw[0], validateString(k, raw[0])
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer value %q", k, raw[0])
		}
		return n, validateInt(k, n)
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean value %q", k, raw[0])
		}
		return b, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %T", k, field.Value)
	}
}

func validateInt(k string, n int) error {
	if lo.Contains(atLeastOne, k) {
		if n < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", k, n)
		}
		return nil
	}

	// Durations, lifetimes and the remaining counts allow 0.
	if n < 0 {
		return fmt.Errorf("%s must not be negative, got %d", k, n)
	}

	return nil
}

func validateString(k, s string) error {
	switch k {
	case key.LogsLevel:
		if _, err := logrus.ParseLevel(s); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	case key.IconsVariant:
		if !lo.Contains(icon.AvailableVariants(), s) {
			return fmt.Errorf("%s: unknown variant %q, available: %s", k, s, strings.Join(icon.AvailableVariants(), ", "))
		}
	case key.FramesSizes:
		w, h, ok := strings.Cut(s, "x")
		if !ok || !positive(w) || !positive(h) {
			return fmt.Errorf("%s: expected WIDTHxHEIGHT, got %q", k, s)
		}
	}

	return nil
}

func positive(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}
