package state

import (
	"slices"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

func clonePeers(peers []engine.PeerInfo) []engine.PeerInfo {
	out := slices.Clone(peers)
	for i := range out {
		out[i].Pieces = slices.Clone(out[i].Pieces)
	}
	return out
}

func clonePieceInfo(info engine.PieceInfo) engine.PieceInfo {
	out := engine.PieceInfo{
		PartialPieces: slices.Clone(info.PartialPieces),
		Blocks:        slices.Clone(info.Blocks),
	}
	for i := range out.PartialPieces {
		out.PartialPieces[i].Blocks = slices.Clone(out.PartialPieces[i].Blocks)
	}
	return out
}

func cloneTrackers(trackers []engine.AnnounceEntry) []engine.AnnounceEntry {
	out := slices.Clone(trackers)
	for i := range out {
		out[i].Endpoints = slices.Clone(out[i].Endpoints)
		for j := range out[i].Endpoints {
			out[i].Endpoints[j].InfoHashes = slices.Clone(out[i].Endpoints[j].InfoHashes)
		}
	}
	return out
}

func cloneDHTStats(stats engine.DHTStats) engine.DHTStats {
	stats.ActiveLookups = slices.Clone(stats.ActiveLookups)
	stats.RoutingTable = slices.Clone(stats.RoutingTable)
	return stats
}
