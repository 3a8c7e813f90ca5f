/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package bingo

import "sort"

// Candidate is a registered card and its owner.
type Candidate struct {
	ParticipantID string
	Name          string
	Cells         []string
}

// Eligibility marks a participant as entitled to claim an open slot.
type Eligibility struct {
	Slot          Pattern
	ParticipantID string
	Name          string
}

// Resolve returns every candidate whose card qualifies for one of the open
// slots, ordered by slot then participant id. Nothing is granted here; a
// claim must still be re-validated when it arrives.
func Resolve(candidates []Candidate, called Called, open []Pattern) []Eligibility {
	var out []Eligibility

	for _, slot := range open {
		if !slot.Valid() {
			continue
		}
		for _, c := range candidates {
			if Qualifies(c.Cells, called, slot) {
				out = append(out, Eligibility{
					Slot:          slot,
					ParticipantID: c.ParticipantID,
					Name:          c.Name,
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Slot != out[j].Slot {
			return out[i].Slot < out[j].Slot
		}
		return out[i].ParticipantID < out[j].ParticipantID
	})

	return out
}
