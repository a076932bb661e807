package models

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"
)

// AllPermissions is the literal used to persist a PermissionSet granting every capability.
const AllPermissions = "*"

// PermissionSet is a set of capability strings such as "user.read", or the
// sentinel meaning every capability. The zero value is the empty set.
type PermissionSet struct {
	all   bool
	perms []string // sorted, unique
}

// NewPermissionSet builds a set from capability strings.
// A "*" entry turns the set into the all-capabilities sentinel.
func NewPermissionSet(perms ...string) PermissionSet {
	set := PermissionSet{}
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if p == AllPermissions {
			return AllPermissionSet()
		}
		set.perms = append(set.perms, p)
	}
	sort.Strings(set.perms)
	set.perms = slices.Compact(set.perms)
	if len(set.perms) == 0 {
		set.perms = nil
	}
	return set
}

// AllPermissionSet returns the sentinel granting every capability.
func AllPermissionSet() PermissionSet {
	return PermissionSet{all: true}
}

// IsAll reports whether the set is the all-capabilities sentinel.
func (p PermissionSet) IsAll() bool {
	return p.all
}

// Contains reports whether the capability is in the set.
func (p PermissionSet) Contains(capability string) bool {
	if capability == "" {
		return false
	}
	if p.all {
		return true
	}
	_, found := slices.BinarySearch(p.perms, capability)
	return found
}

// List returns a copy of the capabilities in sorted order.
// The sentinel lists as a single "*".
func (p PermissionSet) List() []string {
	if p.all {
		return []string{AllPermissions}
	}
	return slices.Clone(p.perms)
}

// Len returns the number of explicit capabilities.
func (p PermissionSet) Len() int {
	return len(p.perms)
}

// Equal reports whether both sets hold the same capabilities.
func (p PermissionSet) Equal(other PermissionSet) bool {
	return p.all == other.all && slices.Equal(p.perms, other.perms)
}

// Encode returns the durable storage representation: the literal "*" for the
// sentinel, otherwise a JSON array of capability strings.
func (p PermissionSet) Encode() (string, error) {
	if p.all {
		return AllPermissions, nil
	}
	perms := p.perms
	if perms == nil {
		perms = []string{}
	}
	data, err := json.Marshal(perms)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodePermissionSet parses the durable storage representation written by Encode.
func DecodePermissionSet(s string) (PermissionSet, error) {
	s = strings.TrimSpace(s)
	if s == AllPermissions {
		return AllPermissionSet(), nil
	}

	var perms []string
	if err := json.Unmarshal([]byte(s), &perms); err != nil {
		return PermissionSet{}, err
	}
	return NewPermissionSet(perms...), nil
}

// MarshalJSON encodes the set using the durable storage representation.
func (p PermissionSet) MarshalJSON() ([]byte, error) {
	if p.all {
		return json.Marshal(AllPermissions)
	}
	if p.perms == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.perms)
}

// UnmarshalJSON accepts either the "*" string or an array of capabilities.
func (p *PermissionSet) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err == nil {
		if literal != AllPermissions {
			*p = NewPermissionSet(literal)
			return nil
		}
		*p = AllPermissionSet()
		return nil
	}

	var perms []string
	if err := json.Unmarshal(data, &perms); err != nil {
		return err
	}
	*p = NewPermissionSet(perms...)
	return nil
}

// UnmarshalYAML accepts either the "*" scalar or a sequence of capabilities.
func (p *PermissionSet) UnmarshalYAML(unmarshal func(any) error) error {
	var literal string
	if err := unmarshal(&literal); err == nil {
		*p = NewPermissionSet(literal)
		return nil
	}

	var perms []string
	if err := unmarshal(&perms); err != nil {
		return err
	}
	*p = NewPermissionSet(perms...)
	return nil
}
