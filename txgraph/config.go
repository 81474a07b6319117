// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
)

// SizeFunc returns the size of a transaction in the unit fee rates are
// expressed in.
type SizeFunc func(tx *btcutil.Tx) int64

// SerializedSize returns the full serialized size of the transaction in
// bytes, witness data included.
func SerializedSize(tx *btcutil.Tx) int64 {
	return int64(tx.MsgTx().SerializeSize())
}

// VirtualSize returns the virtual size of the transaction, its weight divided
// by the witness scale factor and rounded up.
func VirtualSize(tx *btcutil.Tx) int64 {
	weight := blockchain.GetTransactionWeight(tx)
	return (weight + (blockchain.WitnessScaleFactor - 1)) /
		blockchain.WitnessScaleFactor
}

// Config defines configuration for the transaction graph.
type Config struct {
	// TxSize measures transactions for effective fee rate calculations.
	// Defaults to SerializedSize.
	TxSize SizeFunc

	// SelectChange chooses the change script of every replacement built
	// by Compact. Defaults to DeepestChange.
	SelectChange ChangeSelector

	// ConsolidateChange folds every surviving output that pays to a
	// merged transaction's change script into a single output paying the
	// selected change script.
	ConsolidateChange bool
}

// DefaultConfig returns the default graph configuration.
func DefaultConfig() *Config {
	return &Config{
		TxSize:       SerializedSize,
		SelectChange: DeepestChange,
	}
}

// withDefaults returns a copy of the config with unset policies replaced by
// their defaults.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}

	cfg := *c
	if cfg.TxSize == nil {
		cfg.TxSize = SerializedSize
	}
	if cfg.SelectChange == nil {
		cfg.SelectChange = DeepestChange
	}

	return &cfg
}
