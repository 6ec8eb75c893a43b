// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"maps"
	"slices"

	"github.com/stacklok/envictus/schema"
)

// DefaultDiscriminator is used when a configuration names no discriminator.
const DefaultDiscriminator = "NODE_ENV"

// Config is a loaded configuration. It must not be modified after loading.
type Config struct {
	// Schema validates the merged environment.
	Schema schema.Schema

	// Discriminator names the variable whose value selects a defaults bucket.
	// Empty means DefaultDiscriminator.
	Discriminator string

	// Defaults maps discriminator values to partial environments.
	Defaults *Defaults

	// Path is the file the configuration was loaded from, if any.
	Path string

	// EnvFiles lists the env files referenced by defaults buckets.
	EnvFiles []string
}

// DiscriminatorKey returns the discriminator, falling back to DefaultDiscriminator.
func (c *Config) DiscriminatorKey() string {
	if c.Discriminator == "" {
		return DefaultDiscriminator
	}
	return c.Discriminator
}

// Defaults is an ordered mapping from discriminator value to bucket. It
// remembers declaration order, and hands out copies of its buckets.
// A nil *Defaults is empty; the zero value is ready to use.
type Defaults struct {
	keys    []string
	buckets map[string]map[string]any
}

// NewDefaults returns an empty Defaults.
func NewDefaults() *Defaults {
	return &Defaults{buckets: make(map[string]map[string]any)}
}

// Set stores a copy of bucket under mode. A new mode is appended to the key
// order; replacing an existing mode keeps its position.
func (d *Defaults) Set(mode string, bucket map[string]any) *Defaults {
	if d.buckets == nil {
		d.buckets = make(map[string]map[string]any)
	}
	if _, ok := d.buckets[mode]; !ok {
		d.keys = append(d.keys, mode)
	}
	cp := make(map[string]any, len(bucket))
	maps.Copy(cp, bucket)
	d.buckets[mode] = cp
	return d
}

// Keys returns the modes in declaration order.
func (d *Defaults) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// First returns the first declared mode.
func (d *Defaults) First() (string, bool) {
	if d == nil || len(d.keys) == 0 {
		return "", false
	}
	return d.keys[0], true
}

// Bucket returns a shallow copy of the bucket for mode.
func (d *Defaults) Bucket(mode string) (map[string]any, bool) {
	if d == nil {
		return nil, false
	}
	b, ok := d.buckets[mode]
	if !ok {
		return nil, false
	}
	cp := make(map[string]any, len(b))
	maps.Copy(cp, b)
	return cp, true
}

// Len returns the number of buckets.
func (d *Defaults) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}
