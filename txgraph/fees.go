// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// AncestorFee returns the fee of the transaction plus the own fee of every
// distinct ancestor currently in the graph. Ancestors that are themselves
// replacements contribute the combined fee of the transactions they absorbed.
func (g *Graph) AncestorFee(hash chainhash.Hash) (btcutil.Amount, error) {
	node, ok := g.nodes[hash]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrNodeNotFound, hash)
	}

	fee := node.fee
	for _, ancestor := range g.Ancestors(hash) {
		fee += ancestor.fee
	}

	return fee, nil
}

// AncestorSize returns the size of the transaction plus the size of every
// distinct ancestor currently in the graph, measured with the configured
// SizeFunc.
func (g *Graph) AncestorSize(hash chainhash.Hash) (int64, error) {
	node, ok := g.nodes[hash]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrNodeNotFound, hash)
	}

	size := g.cfg.TxSize(node.tx)
	for _, ancestor := range g.Ancestors(hash) {
		size += g.cfg.TxSize(ancestor.tx)
	}

	return size, nil
}

// EffectiveFeeRate returns the ancestor fee of the transaction per 1000 units
// of ancestor size. It is the rate a miner earns by confirming the
// transaction together with every unconfirmed ancestor it depends on.
func (g *Graph) EffectiveFeeRate(hash chainhash.Hash) (btcutil.Amount, error) {
	fee, err := g.AncestorFee(hash)
	if err != nil {
		return 0, err
	}
	size, err := g.AncestorSize(hash)
	if err != nil {
		return 0, err
	}
	if size == 0 {
		return 0, nil
	}

	return fee * 1000 / btcutil.Amount(size), nil
}
