// Package merkle provides the merkle root computation used by blocks. The
// byte layout is part of consensus: leaves are hex strings, pairs are joined
// by plain string concatenation, and the last element of an odd level is
// paired with itself.
package merkle

import (
	"strings"

	"github.com/emberchain/blockchain/foundation/blockchain/signature"
)

// RootHex computes the merkle root over the ordered list of hex leaves.
// Empty and whitespace-only entries are discarded first. An empty list
// produces the hash of the empty string so the root is always defined.
func RootHex(leaves []string) string {
	level := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		if strings.TrimSpace(leaf) == "" {
			continue
		}
		level = append(level, leaf)
	}

	if len(level) == 0 {
		return signature.HashHex([]byte(""))
	}

	for len(level) > 1 {
		next := make([]string, 0, (len(level)+1)/2)

		for i := 0; i < len(level); i += 2 {
			left := level[i]

			// An odd element at the end is paired with itself.
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}

			next = append(next, signature.HashHex([]byte(left+right)))
		}

		level = next
	}

	return level[0]
}
