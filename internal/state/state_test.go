package state

import (
	"errors"
	"testing"
	"time"

	"github.com/Rediminds/holiday-game/internal/bingo"
)

func cardCells() []string {
	cells := make([]string, 0, bingo.CardSize)
	for c := 'A'; c <= 'L'; c++ {
		cells = append(cells, string(c))
	}
	cells = append(cells, bingo.FreeSpace)
	for c := 'M'; c <= 'X'; c++ {
		cells = append(cells, string(c))
	}
	return cells
}

func seededBingo() *GameState {
	st := New()
	for c := 'A'; c <= 'Z'; c++ {
		st.Bingo.AddItem(string(c))
	}
	return st
}

func TestCallRequiresPoolAndDedupes(t *testing.T) {
	st := seededBingo()

	if !st.Bingo.Call("A") {
		t.Fatal("first call of A refused")
	}
	if st.Bingo.Call("A") {
		t.Error("A called twice")
	}
	if st.Bingo.Call("not in pool") {
		t.Error("item outside pool was called")
	}
	if len(st.Bingo.CalledItems) != 1 {
		t.Errorf("called = %v", st.Bingo.CalledItems)
	}
}

func TestRemoveItemAlsoUncalls(t *testing.T) {
	st := seededBingo()
	st.Bingo.Call("B")

	if !st.Bingo.RemoveItem("B") {
		t.Fatal("remove reported no change")
	}
	if st.Bingo.Called().Has("B") {
		t.Error("B still called")
	}
	if st.Bingo.RemoveItem("B") {
		t.Error("second remove should be a no-op")
	}
}

func TestMarkRecordsUncalledItemsOncePerParticipant(t *testing.T) {
	st := seededBingo()
	al := Participant{ID: "us_1", Name: "Al"}

	if !st.Bingo.Mark("C", al) {
		t.Fatal("mark of uncalled item refused")
	}
	if st.Bingo.Mark("C", al) {
		t.Error("duplicate mark accepted")
	}
	if !st.Bingo.Mark("C", Participant{ID: "us_2", Name: "Bo"}) {
		t.Error("second participant refused")
	}
	if n := len(st.Bingo.Selections["C"]); n != 2 {
		t.Errorf("selections = %d, want 2", n)
	}
}

func TestClaimPrizeIsWriteOnce(t *testing.T) {
	st := seededBingo()
	al := Participant{ID: "us_1", Name: "Al"}
	bo := Participant{ID: "us_2", Name: "Bo"}
	st.Bingo.RegisterCard(al, cardCells())
	st.Bingo.RegisterCard(bo, cardCells())

	if _, err := st.Bingo.ClaimPrize(bingo.RowColDiag, al, "Backpack"); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("early claim err = %v, want ErrNotEligible", err)
	}

	for _, item := range []string{"A", "B", "C", "D", "E"} {
		st.Bingo.Call(item)
	}

	claim, err := st.Bingo.ClaimPrize(bingo.RowColDiag, al, "Backpack")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claim.ID != "us_1" || claim.Prize != "Backpack" {
		t.Errorf("claim = %+v", claim)
	}

	if _, err := st.Bingo.ClaimPrize(bingo.RowColDiag, bo, "Backpack"); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("second claim err = %v, want ErrSlotTaken", err)
	}
	if st.Bingo.Prizes.RowColDiag.ID != "us_1" {
		t.Error("slot overwritten")
	}
	if _, err := st.Bingo.ClaimPrize(bingo.XPattern, bo, "Headphone"); !errors.Is(err, ErrNotEligible) {
		t.Errorf("x claim err = %v, want ErrNotEligible", err)
	}
	if _, err := st.Bingo.ClaimPrize(bingo.XPattern, Participant{ID: "ghost"}, "Headphone"); !errors.Is(err, ErrNoCard) {
		t.Errorf("cardless claim err = %v, want ErrNoCard", err)
	}
	if _, err := st.Bingo.ClaimPrize("jackpot", al, ""); !errors.Is(err, ErrUnknownSlot) {
		t.Errorf("bad slot err = %v", err)
	}
	if len(st.Bingo.Winners) != 1 {
		t.Errorf("winners = %v", st.Bingo.Winners)
	}
	if open := st.Bingo.OpenSlots(); len(open) != 1 || open[0] != bingo.XPattern {
		t.Errorf("open slots = %v", open)
	}
}

func TestXCardClaimsOnlyXSlot(t *testing.T) {
	st := seededBingo()
	al := Participant{ID: "us_1", Name: "Al"}
	st.Bingo.RegisterCard(al, cardCells())

	for _, item := range []string{"A", "G", "R", "X", "E", "I", "P", "T"} {
		st.Bingo.Call(item)
	}

	if _, err := st.Bingo.ClaimPrize(bingo.RowColDiag, al, "Backpack"); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("row claim with an X err = %v, want ErrNotEligible", err)
	}
	if _, err := st.Bingo.ClaimPrize(bingo.XPattern, al, "Headphone"); err != nil {
		t.Fatalf("x claim: %v", err)
	}
	if _, err := st.Bingo.ClaimPrize(bingo.RowColDiag, al, "Backpack"); !errors.Is(err, ErrNotEligible) {
		t.Errorf("second prize err = %v, want ErrNotEligible", err)
	}
	if st.Bingo.Prizes.RowColDiag != nil {
		t.Errorf("row slot = %+v, want empty", st.Bingo.Prizes.RowColDiag)
	}
}

func TestRevealIsStaticPerIndex(t *testing.T) {
	st := New()
	st.Gifts.AddGift("US", &Gift{ID: "g0", Name: "Mug"})
	st.Gifts.AddGift("US", &Gift{ID: "g1", Name: "Scarf"})

	first := st.Gifts.Reveal("US", 1)
	again := st.Gifts.Reveal("US", 1)
	if first.Type != BoxGift || first.Gift.ID != "g1" || again.Gift.ID != first.Gift.ID {
		t.Fatalf("reveal mismatch: %+v vs %+v", first, again)
	}

	if _, err := st.Gifts.Claim(Participant{ID: "us_1", Name: "Al"}, "US", "g1", time.Now()); err != nil {
		t.Fatalf("claim: %v", err)
	}
	taken := st.Gifts.Reveal("US", 1)
	if taken.Type != BoxTaken || taken.Gift.ID != "g1" {
		t.Errorf("after claim = %+v", taken)
	}

	if empty := st.Gifts.Reveal("US", 7); empty.Type != BoxEmpty || empty.Gift != nil {
		t.Errorf("out of range = %+v", empty)
	}
	if empty := st.Gifts.Reveal("Mars", 0); empty.Type != BoxEmpty {
		t.Errorf("unknown region = %+v", empty)
	}
}

func TestGiftClaimBothSides(t *testing.T) {
	st := New()
	st.Gifts.AddGift("US", &Gift{ID: "g0", Name: "Mug"})
	st.Gifts.AddGift("US", &Gift{ID: "g1", Name: "Scarf"})
	al := Participant{ID: "us_1", Name: "Al"}
	bo := Participant{ID: "us_2", Name: "Bo"}
	now := time.Date(2025, 12, 19, 17, 0, 0, 0, time.UTC)

	claim, err := st.Gifts.Claim(al, "US", "g0", now)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claim.GiftName != "Mug" || !claim.ClaimedAt.Equal(now) {
		t.Errorf("claim = %+v", claim)
	}

	if existing, err := st.Gifts.Claim(al, "US", "g1", now); !errors.Is(err, ErrAlreadyClaimed) || existing.GiftID != "g0" {
		t.Errorf("second claim by Al: %+v, %v", existing, err)
	}
	if _, err := st.Gifts.Claim(bo, "US", "g0", now); !errors.Is(err, ErrGiftUnavailable) {
		t.Errorf("Bo on taken gift err = %v", err)
	}
	if _, err := st.Gifts.Claim(bo, "US", "missing", now); !errors.Is(err, ErrGiftUnavailable) {
		t.Errorf("Bo on missing gift err = %v", err)
	}

	gift := st.Gifts.Find("US", "g0")
	if !gift.Claimed || gift.ClaimedBy.ParticipantID != "us_1" {
		t.Errorf("gift = %+v", gift)
	}
}

func TestOpenBoxDedupes(t *testing.T) {
	st := New()
	if !st.Gifts.OpenBox("us_1", 3) {
		t.Fatal("first open refused")
	}
	if st.Gifts.OpenBox("us_1", 3) {
		t.Error("repeat open counted")
	}
	if !st.Gifts.OpenBox("us_2", 3) {
		t.Error("other participant refused")
	}
}

func TestBoxesDefault(t *testing.T) {
	st := New()
	if n := st.Gifts.Boxes("US"); n != DefaultBoxCount {
		t.Errorf("boxes = %d", n)
	}
	st.Gifts.BoxCount["US"] = 9
	if n := st.Gifts.Boxes("US"); n != 9 {
		t.Errorf("boxes = %d", n)
	}
}

func TestSpiritWear(t *testing.T) {
	st := New()
	al := Participant{ID: "us_1", Name: "Al"}

	if !st.SpiritWear.Enter(al) || st.SpiritWear.Enter(al) {
		t.Fatal("enter should accept once")
	}
	if st.SpiritWear.Vote("") {
		t.Error("empty vote counted")
	}
	if !st.SpiritWear.Vote("nobody") || st.SpiritWear.Votes["nobody"] != 1 {
		t.Error("vote for an id that never entered should still count")
	}
	st.SpiritWear.Vote("us_1")
	st.SpiritWear.Vote("us_1")
	if st.SpiritWear.Votes["us_1"] != 2 {
		t.Errorf("votes = %d, want 2", st.SpiritWear.Votes["us_1"])
	}
}

func TestResetRound(t *testing.T) {
	st := seededBingo()
	st.Stage = StageGiftGame
	al := Participant{ID: "us_1", Name: "Al"}

	st.Bingo.RegisterCard(al, cardCells())
	for _, item := range []string{"A", "B", "C", "D", "E"} {
		st.Bingo.Call(item)
	}
	st.Bingo.Mark("A", al)
	if _, err := st.Bingo.ClaimPrize(bingo.RowColDiag, al, "Backpack"); err != nil {
		t.Fatal(err)
	}
	st.Gifts.AddGift("US", &Gift{ID: "g0", Name: "Mug"})
	st.Gifts.OpenBox("us_1", 0)
	if _, err := st.Gifts.Claim(al, "US", "g0", time.Now()); err != nil {
		t.Fatal(err)
	}
	st.SpiritWear.Enter(al)
	st.SpiritWear.Vote("us_1")

	st.ResetRound()

	if st.Stage != StageGiftGame {
		t.Error("stage changed")
	}
	if len(st.Bingo.Items) != 26 {
		t.Errorf("items = %d, want 26", len(st.Bingo.Items))
	}
	if len(st.Bingo.CalledItems) != 0 || len(st.Bingo.UserCards) != 0 || len(st.Bingo.Selections) != 0 || len(st.Bingo.Winners) != 0 {
		t.Error("bingo round state survived")
	}
	if st.Bingo.Prizes.RowColDiag != nil || st.Bingo.Prizes.XPattern != nil {
		t.Error("prizes survived")
	}
	gift := st.Gifts.Find("US", "g0")
	if gift == nil || gift.Claimed || gift.ClaimedBy != nil {
		t.Errorf("gift = %+v, want unclaimed and present", gift)
	}
	if len(st.Gifts.Claims) != 0 || len(st.Gifts.OpenedBoxes) != 0 {
		t.Error("gift claims survived")
	}
	if len(st.SpiritWear.Contestants) != 0 || len(st.SpiritWear.Votes) != 0 {
		t.Error("spirit wear survived")
	}
}
