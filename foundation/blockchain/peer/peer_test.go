package peer_test

import (
	"testing"

	"github.com/emberchain/blockchain/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestSet(t *testing.T) {
	t.Log("Given the need to maintain the known peer set.")
	{
		t.Logf("\tTest 0:\tWhen adding and copying peers.")
		{
			ps := peer.NewSet()

			if !ps.Add(peer.New("host-a:9080")) {
				t.Fatalf("\t%s\tTest 0:\tShould report a new peer as added.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report a new peer as added.", success)

			if ps.Add(peer.New("host-a:9080")) {
				t.Fatalf("\t%s\tTest 0:\tShould report a known peer as not added.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report a known peer as not added.", success)

			ps.Add(peer.New("host-b:9080"))

			peers := ps.Copy("host-a:9080")
			if len(peers) != 1 || peers[0].Host != "host-b:9080" {
				t.Fatalf("\t%s\tTest 0:\tShould exclude the specified host from the copy.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould exclude the specified host from the copy.", success)

			ps.Remove(peer.New("host-b:9080"))
			if len(ps.Copy("")) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould remove a peer.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould remove a peer.", success)
		}
	}
}
