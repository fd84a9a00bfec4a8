package domain

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// ProductOptions is the immutable set of variant attributes (size, color,
// ...) selected for a cart line. Two lines with the same product but
// different options are different lines.
type ProductOptions struct {
	values map[string]string
}

// NewProductOptions copies the given map; nil is treated as no options.
func NewProductOptions(values map[string]string) ProductOptions {
	if len(values) == 0 {
		return ProductOptions{}
	}
	cp := make(map[string]string, len(values))
	maps.Copy(cp, values)
	return ProductOptions{values: cp}
}

// NoOptions is the canonical empty value.
func NoOptions() ProductOptions { return ProductOptions{} }

func (o ProductOptions) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

func (o ProductOptions) Get(key string) (string, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o ProductOptions) IsEmpty() bool { return len(o.values) == 0 }

func (o ProductOptions) Len() int { return len(o.values) }

// Values returns a copy; mutating it does not affect the options.
func (o ProductOptions) Values() map[string]string {
	cp := make(map[string]string, len(o.values))
	maps.Copy(cp, o.values)
	return cp
}

// Equal is structural: same keys, same values.
func (o ProductOptions) Equal(other ProductOptions) bool {
	return maps.Equal(o.values, other.values)
}

// String renders options as "k=v" pairs in key order, mainly for logs.
func (o ProductOptions) String() string {
	if len(o.values) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(o.values))
	for k := range o.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, o.values[k]))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
