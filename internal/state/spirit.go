/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package state

type SpiritWear struct {
	Contestants []Participant  `json:"contestants"`
	Votes       map[string]int `json:"votes"`
}

func (s *SpiritWear) IsContestant(id string) bool {
	for _, c := range s.Contestants {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *SpiritWear) Enter(p Participant) bool {
	if p.ID == "" || s.IsContestant(p.ID) {
		return false
	}
	s.Contestants = append(s.Contestants, p)
	return true
}

// Vote adds one to the tally for contestantID, entered or not. Voters are
// not deduplicated.
func (s *SpiritWear) Vote(contestantID string) bool {
	if contestantID == "" {
		return false
	}
	s.Votes[contestantID]++
	return true
}
