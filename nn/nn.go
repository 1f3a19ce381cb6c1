// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/bpnet/internal/nn"
)

// Network is an ordered cascade of layers joined by projections.
type Network = nn.Network

// NewNetwork returns an empty network.
//
// Example:
//
//	net := nn.NewNetwork()
//	in, _ := net.CreateLayer(2)
//	out, _ := net.CreateLayer(1)
//	net.CreateProjection(in, out)
func NewNetwork() *Network {
	return nn.NewNetwork()
}

// Layer is a group of logistic units sharing one activation range.
type Layer = nn.Layer

// LayerID identifies a layer within its network.
type LayerID = nn.LayerID

// Projection is a full connection from a source layer to a destination layer.
type Projection = nn.Projection

// ProjectionID identifies a projection within its network.
type ProjectionID = nn.ProjectionID

// Role is the structural position of a layer in the cascade.
type Role = nn.Role

// Layer roles.
const (
	RoleIsolated = nn.RoleIsolated
	RoleInput    = nn.RoleInput
	RoleHidden   = nn.RoleHidden
	RoleOutput   = nn.RoleOutput
)

// LayerError records which layer failed during a network sweep.
type LayerError = nn.LayerError

// Errors

// Errors returned by network construction and propagation.
var (
	ErrInvalidSize        = nn.ErrInvalidSize
	ErrBadRange           = nn.ErrBadRange
	ErrUnknownLayer       = nn.ErrUnknownLayer
	ErrConnectionMismatch = nn.ErrConnectionMismatch
	ErrBackwardProjection = nn.ErrBackwardProjection
	ErrNoTarget           = nn.ErrNoTarget
	ErrNoInputLayer       = nn.ErrNoInputLayer
	ErrNoOutputLayer      = nn.ErrNoOutputLayer
)
