package peer_test

import (
	"testing"

	"github.com/utxolab/blockchain/foundation/blockchain/peer"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host3:9080"}, {Host: "host1:9080"}, {Host: "host2:9080"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				if !ps.Add(peer) {
					t.Fatalf("Test %s:\tShould be able to add peer %s.", tst.name, peer.Host)
				}
			}

			if ps.Add(tst.peers[0]) {
				t.Fatalf("Test %s:\tShould not add a known peer twice.", tst.name)
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			if peers[0].Host != "host1:9080" || peers[2].Host != "host3:9080" {
				t.Fatalf("Test %s:\tShould get back the peers ordered by host: %v", tst.name, peers)
			}

			peers = ps.Copy("host2:9080")
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			ps.Remove(peer.New("host2:9080"))
			if ps.Exists(peer.New("host2:9080")) {
				t.Fatalf("Test %s:\tShould be able to remove a peer.", tst.name)
			}

			if len(ps.Copy("")) != len(tst.peers)-1 {
				t.Fatalf("Test %s:\tShould have one less peer after remove.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_NewPeerSet(t *testing.T) {
	ps := peer.NewPeerSet(peer.New("a:1"), peer.New(""), peer.New("b:2"))

	if got := len(ps.Copy("")); got != 2 {
		t.Fatalf("Should seed the set with the non empty hosts: %d", got)
	}
}
