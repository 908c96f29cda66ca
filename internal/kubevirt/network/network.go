// Package network describes the VM network types and the interface types
// each of them accepts.
package network

import (
	"fmt"
	"sort"
)

// InterfaceType is how a VM NIC is attached to its network
type InterfaceType string

const (
	InterfaceBridge     InterfaceType = "bridge"
	InterfaceMasquerade InterfaceType = "masquerade"
	InterfaceSRIOV      InterfaceType = "sriov"
)

// Type is a VM network type. The zero value is not a valid type.
type Type string

const (
	TypeMultus Type = "multus"
	TypePod    Type = "pod"
	TypeGenie  Type = "genie"
)

type typeInfo struct {
	defaultInterface InterfaceType
	allowed          []InterfaceType
}

// registry is built once and never modified
var registry = map[Type]typeInfo{
	TypeMultus: {
		defaultInterface: InterfaceBridge,
		allowed:          []InterfaceType{InterfaceBridge, InterfaceSRIOV},
	},
	TypePod: {
		defaultInterface: InterfaceMasquerade,
		allowed:          []InterfaceType{InterfaceMasquerade, InterfaceBridge, InterfaceSRIOV},
	},
	TypeGenie: {
		defaultInterface: InterfaceBridge,
		allowed:          []InterfaceType{InterfaceBridge},
	},
}

// Serialized is the wire form of a network type
type Serialized struct {
	Value string `json:"value"`
}

// All returns every network type in a stable order
func All() []Type {
	types := make([]Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// FromString looks a network type up by value
func FromString(value string) (Type, bool) {
	t := Type(value)
	_, ok := registry[t]
	return t, ok
}

// FromSerialized looks a network type up from its wire form
func FromSerialized(s *Serialized) (Type, bool) {
	if s == nil {
		return "", false
	}
	return FromString(s.Value)
}

// Valid reports whether t is a known network type
func (t Type) Valid() bool {
	_, ok := registry[t]
	return ok
}

// DefaultInterfaceType returns the interface type used when none is chosen
func (t Type) DefaultInterfaceType() (InterfaceType, error) {
	info, ok := registry[t]
	if !ok {
		return "", fmt.Errorf("unknown network type %q", string(t))
	}
	return info.defaultInterface, nil
}

// AllowedInterfaceTypes returns a copy of the interface types t accepts
func (t Type) AllowedInterfaceTypes() []InterfaceType {
	return append([]InterfaceType(nil), registry[t].allowed...)
}

// AllowsInterfaceType reports whether t accepts the interface type
func (t Type) AllowsInterfaceType(it InterfaceType) bool {
	for _, allowed := range registry[t].allowed {
		if allowed == it {
			return true
		}
	}
	return false
}

func (t Type) String() string {
	return string(t)
}
