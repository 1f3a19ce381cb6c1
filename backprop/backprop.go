// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package backprop trains networks with full-batch error backpropagation.
//
// # Basic Usage
//
//	tr := backprop.New(backprop.DefaultConfig())
//	in, _ := tr.Network().CreateLayer(2)
//	hid, _ := tr.Network().CreateLayer(2)
//	out, _ := tr.Network().CreateLayer(1)
//	tr.Network().CreateProjection(in, hid)
//	tr.Network().CreateProjection(hid, out)
//
//	if err := tr.ReadTrainingPatterns("xor.pat"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := tr.InitNetwork(); err != nil {
//	    log.Fatal(err)
//	}
//	sse, err := tr.Train(ctx, backprop.StopCriteria{MaxEpochs: 5000, ErrorThreshold: 0.05}, nil)
package backprop

import (
	"github.com/born-ml/bpnet/internal/backprop"
)

// Trainer drives one network through training and testing epochs.
type Trainer = backprop.Trainer

// Config holds trainer hyperparameters.
type Config = backprop.Config

// StopCriteria bounds a Train call.
type StopCriteria = backprop.StopCriteria

// New returns a Trainer with an empty network.
func New(cfg Config) *Trainer {
	return backprop.New(cfg)
}

// DefaultConfig returns the default trainer configuration: learning rate 0.1,
// initial weight range 1.0 and a clock-derived seed.
func DefaultConfig() Config {
	return backprop.DefaultConfig()
}

// Errors returned by training and testing epochs.
var (
	ErrNotInitialized = backprop.ErrNotInitialized
	ErrNoPatterns     = backprop.ErrNoPatterns
	ErrEpochFailed    = backprop.ErrEpochFailed
)
