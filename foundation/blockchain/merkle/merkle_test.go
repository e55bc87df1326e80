package merkle_test

import (
	"testing"

	"github.com/emberchain/blockchain/foundation/blockchain/merkle"
	"github.com/emberchain/blockchain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestRootHex(t *testing.T) {
	a := signature.HashHex([]byte("a"))
	b := signature.HashHex([]byte("b"))
	c := signature.HashHex([]byte("c"))

	type table struct {
		name   string
		leaves []string
		exp    string
	}

	tt := []table{
		{
			name:   "empty",
			leaves: nil,
			exp:    signature.HashHex([]byte("")),
		},
		{
			name:   "blanks filtered",
			leaves: []string{"", "   ", "\t"},
			exp:    signature.HashHex([]byte("")),
		},
		{
			name:   "single leaf is the root",
			leaves: []string{a},
			exp:    a,
		},
		{
			name:   "pair",
			leaves: []string{a, b},
			exp:    signature.HashHex([]byte(a + b)),
		},
		{
			name:   "odd level pairs last with itself",
			leaves: []string{a, b, c},
			exp:    signature.HashHex([]byte(signature.HashHex([]byte(a+b)) + signature.HashHex([]byte(c+c)))),
		},
		{
			name:   "blanks between leaves are discarded",
			leaves: []string{a, "", b},
			exp:    signature.HashHex([]byte(a + b)),
		},
	}

	t.Log("Given the need to compute deterministic merkle roots.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen computing the root for %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					got := merkle.RootHex(tst.leaves)
					if got != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould get the expected root.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected root.", success, testID)

					again := merkle.RootHex(tst.leaves)
					if again != got {
						t.Fatalf("\t%s\tTest %d:\tShould be deterministic across calls.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be deterministic across calls.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
