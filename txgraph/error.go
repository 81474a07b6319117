// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import "errors"

var (
	// ErrTargetNotFound is returned by Compact when a requested target is
	// not a node of the graph being compacted.
	ErrTargetNotFound = errors.New("compaction target not found in graph")

	// ErrNodeNotFound is returned when a query names a transaction that is
	// not a node of the graph.
	ErrNodeNotFound = errors.New("node not found in graph")

	// ErrTransactionExists is returned when two records carry the same
	// transaction.
	ErrTransactionExists = errors.New("transaction already exists in graph")

	// ErrNilTransaction is returned when a record has no transaction.
	ErrNilTransaction = errors.New("record has no transaction")

	// ErrUnknownOutput is returned when a record designates a change
	// script that none of its transaction's outputs pay to.
	ErrUnknownOutput = errors.New("change script does not match any " +
		"output")
)
