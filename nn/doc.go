// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides layered feed-forward networks of logistic units.
//
// # Overview
//
// This package contains:
//   - Network: owns layers and projections, runs forward and backward sweeps
//   - Layer: a group of units with a shared activation range
//   - Projection: a full weight matrix from one layer to a later one
//   - Weight files: plain text save and load of every bias and weight
//
// # Basic Usage
//
//	import "github.com/born-ml/bpnet/nn"
//
//	func main() {
//	    net := nn.NewNetwork()
//	    in, _ := net.CreateLayer(2)
//	    hid, _ := net.CreateLayer(2)
//	    out, _ := net.CreateLayer(1)
//	    net.CreateProjection(in, hid)
//	    net.CreateProjection(hid, out)
//
//	    in.LoadInput(linalg.VectorOf(0, 1))
//	    if err := net.ComputeActivation(); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(out.Activation())
//	}
//
// # Propagation Order
//
// Layers are visited in creation order on the forward pass and in reverse
// creation order on the backward pass. A projection's source must be created
// before its destination, which keeps the cascade acyclic.
//
// # Weight Files
//
// SaveWeights writes one line of biases per layer, then every projection's
// weight matrix grouped by destination layer. There is no header; the reader
// relies on the network already having the right shape.
//
//	if err := net.SaveWeights("xor.wts"); err != nil {
//	    log.Fatal(err)
//	}
package nn
