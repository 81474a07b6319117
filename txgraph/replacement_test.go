// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// TestStripIntermediateIndependent verifies that replacements of unrelated
// components are all kept.
func TestStripIntermediateIndependent(t *testing.T) {
	first, second := newFeeChain(), newFeeChain()
	records := append(first.records, second.records...)

	g, err := New(records, nil)
	require.NoError(t, err)

	compacted, set, err := g.Compact(targets(first.txs[0], second.txs[0]))
	require.NoError(t, err)
	require.Equal(t, 2, compacted.Len())

	stripped := set.StripIntermediate()
	require.Len(t, stripped, 2)
	require.Equal(t, hashes(set.Nodes()), hashes(stripped.Nodes()))
	require.Equal(t, txHashes(first.txs), stripped[0].ReplacedHashes())
	require.Equal(t, txHashes(second.txs), stripped[1].ReplacedHashes())
}

// TestStripIntermediateChained verifies that only the last of three nested
// compactions survives.
func TestStripIntermediateChained(t *testing.T) {
	c := newFeeChain()
	g, err := New(c.records, nil)
	require.NoError(t, err)

	_, set, err := g.Compact(targets(c.txs[3], c.txs[1], c.txs[0]))
	require.NoError(t, err)
	require.Len(t, set, 3)
	require.True(t, set[2].Replaces(set[1].Node.Hash()))
	require.True(t, set[2].Replaces(set[0].Node.Hash()))

	stripped := set.StripIntermediate()
	require.Len(t, stripped, 1)
	require.Same(t, set[2], stripped[0])
	require.Len(t, stripped[0].Replaced, 7)
}

// TestReplaces verifies membership queries on a replacement.
func TestReplaces(t *testing.T) {
	c := newFeeChain()
	g, err := New(c.records, nil)
	require.NoError(t, err)

	_, set, err := g.Compact(targets(c.txs[3]))
	require.NoError(t, err)

	r := set[0]
	require.True(t, r.Replaces(h(c.txs[3])))
	require.True(t, r.Replaces(h(c.txs[4])))
	require.False(t, r.Replaces(h(c.txs[2])))
	require.False(t, r.Replaces(r.Node.Hash()))
	require.Equal(t, txHashes(c.txs[3:]), r.ReplacedHashes())
}

// TestReplacementPacket verifies the previous outputs attached to the inputs
// of a replacement packet.
func TestReplacementPacket(t *testing.T) {
	parentTx := wire.NewMsgTx(wire.TxVersion)
	parentTx.AddTxIn(wire.NewTxIn(&wire.OutPoint{
		Hash: chainhash.DoubleHashH(uniqueHash160()),
	}, []byte{0x51}, nil))
	parentTx.AddTxOut(wire.NewTxOut(50000, p2pkhScript()))
	parentTx.AddTxOut(wire.NewTxOut(60000, p2wpkhScript()))
	parent := btcutil.NewTx(parentTx)

	ext := externalOutPoint()
	target := createTx([]wire.OutPoint{out(parent, 0), out(parent, 1), ext}, 1)
	child := createTx([]wire.OutPoint{out(target, 0)}, 1)

	g, err := New([]*TxRecord{
		{Tx: parent, Fee: 100},
		ownedRecord(target, 200, -1),
		ownedRecord(child, 300, 0),
	}, nil)
	require.NoError(t, err)

	compacted, set, err := g.Compact(targets(target))
	require.NoError(t, err)

	packet, err := set[0].Packet(compacted)
	require.NoError(t, err)
	require.Equal(t, set[0].Node.Hash(), packet.UnsignedTx.TxHash())
	require.Len(t, packet.Inputs, 3)
	require.Len(t, packet.Outputs, 1)

	require.Equal(t, parentTx, packet.Inputs[0].NonWitnessUtxo)
	require.Nil(t, packet.Inputs[0].WitnessUtxo)

	require.Equal(t, parentTx.TxOut[1], packet.Inputs[1].WitnessUtxo)
	require.Nil(t, packet.Inputs[1].NonWitnessUtxo)

	require.Nil(t, packet.Inputs[2].WitnessUtxo)
	require.Nil(t, packet.Inputs[2].NonWitnessUtxo)

	// The packet owns its copy of the unsigned transaction.
	packet.UnsignedTx.TxIn[0].Sequence = 0
	require.Equal(
		t, uint32(wire.MaxTxInSequenceNum),
		set[0].Node.Tx().MsgTx().TxIn[0].Sequence,
	)
}
