// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"bytes"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
)

// TxRecord is a snapshot of one unconfirmed transaction as seen by the
// wallet. Records are supplied by the caller and never modified by the graph.
type TxRecord struct {
	// Tx is the unconfirmed transaction.
	Tx *btcutil.Tx

	// Fee is the fee paid by this transaction alone.
	Fee btcutil.Amount

	// ChangeScript is the locking script of the wallet's change output,
	// or nil when the transaction has no designated change.
	ChangeScript []byte

	// Owned is set when the wallet created the transaction and may
	// rewrite it.
	Owned bool
}

// paysTo reports whether any of the outputs is locked by script.
func paysTo(outputs []*wire.TxOut, script []byte) bool {
	for _, txOut := range outputs {
		if bytes.Equal(txOut.PkScript, script) {
			return true
		}
	}

	return false
}
