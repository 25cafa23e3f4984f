package session

import (
	"github.com/alanbriolat/swarmkeeper/generic"
	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

// Job-scoped commands and reads keyed by hex identity. A malformed identity is an error; an unknown job reads as None
// and ignores commands.

func withJob[V any](s *Session, id string, f func(j *Job) generic.Option[V]) (generic.Option[V], error) {
	j, err := s.lookup(id)
	if err != nil {
		return generic.None[V](), err
	} else if j == nil {
		return generic.None[V](), nil
	}
	return f(j), nil
}

func (s *Session) JobStatus(id string) (generic.Option[engine.JobStatus], error) {
	return withJob(s, id, (*Job).GetStatus)
}

func (s *Session) Peers(id string) (generic.Option[[]engine.PeerInfo], error) {
	return withJob(s, id, (*Job).GetPeers)
}

func (s *Session) FileProgress(id string, pieceGranularity bool) (generic.Option[[]int64], error) {
	return withJob(s, id, func(j *Job) generic.Option[[]int64] {
		return j.GetFileProgress(pieceGranularity)
	})
}

func (s *Session) PieceInfo(id string) (generic.Option[engine.PieceInfo], error) {
	return withJob(s, id, (*Job).GetPieceInfo)
}

func (s *Session) PieceAvailability(id string) (generic.Option[[]int], error) {
	return withJob(s, id, (*Job).GetPieceAvailability)
}

func (s *Session) Trackers(id string) (generic.Option[[]engine.AnnounceEntry], error) {
	return withJob(s, id, (*Job).GetTrackers)
}

func (s *Session) SetFlags(id string, flags engine.Flags) error {
	_, err := withJob(s, id, func(j *Job) generic.Option[generic.Void] {
		j.SetFlags(flags)
		return generic.Some(generic.Void{})
	})
	return err
}

func (s *Session) UnsetFlags(id string, flags engine.Flags) error {
	_, err := withJob(s, id, func(j *Job) generic.Option[generic.Void] {
		j.UnsetFlags(flags)
		return generic.Some(generic.Void{})
	})
	return err
}

func (s *Session) SetFlagsWithMask(id string, flags engine.Flags, mask engine.Flags) error {
	_, err := withJob(s, id, func(j *Job) generic.Option[generic.Void] {
		j.SetFlagsWithMask(flags, mask)
		return generic.Some(generic.Void{})
	})
	return err
}
