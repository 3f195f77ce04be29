package relationship

import "time"

// advanceStage runs the stage machine: at most one promotion per update,
// then the demotion checks. Demotion thresholds sit below the promotion
// thresholds so the stage does not flap around a boundary.
func advanceStage(s *State, now time.Time) {
	oldStage := s.FriendshipStage

	switch {
	case s.FriendshipStage == StageStranger && s.TrustLevel >= 20:
		s.FriendshipStage = StageAcquaintance
		s.RecordKeyEvent("Friendship stage changed to Acquaintance.", now)
	case s.FriendshipStage == StageAcquaintance && s.TrustLevel >= 40 && s.AffectionLevel >= 30:
		s.FriendshipStage = StageFriend
		s.RecordKeyEvent("Friendship stage changed to Friend.", now)
	case s.FriendshipStage == StageFriend && s.TrustLevel >= 60 && s.AffectionLevel >= 70:
		s.FriendshipStage = StageCloseFriend
		s.RecordKeyEvent("Friendship stage changed to Close Friend.", now)
	}

	switch {
	case s.TrustLevel < 5 && oldStage != StageStranger && oldStage != StageEnemy:
		s.FriendshipStage = StageStranger
		s.RecordKeyEvent("Friendship stage degraded to Stranger due to low trust.", now)
	case s.FriendshipStage == StageCloseFriend && (s.TrustLevel < 55 || s.AffectionLevel < 65):
		s.FriendshipStage = StageFriend
		s.RecordKeyEvent("Friendship stage degraded to Friend.", now)
	case s.FriendshipStage == StageFriend && (s.TrustLevel < 35 || s.AffectionLevel < 25):
		s.FriendshipStage = StageAcquaintance
		s.RecordKeyEvent("Friendship stage degraded to Acquaintance.", now)
	}
}
