package models

import "testing"

func testConv() *Conversation {
	return &Conversation{
		BaseModel:  BaseModel{ID: "c1"},
		TenantID:   "tenant",
		LandlordID: "landlord",
		ListingID:  "flat1",
	}
}

func TestHasParticipant(t *testing.T) {
	cv := testConv()
	if !cv.HasParticipant("tenant") || !cv.HasParticipant("landlord") {
		t.Fatalf("both parties are participants")
	}
	if cv.HasParticipant("stranger") {
		t.Fatalf("outsider is not a participant")
	}
}

func TestOtherParty(t *testing.T) {
	cv := testConv()
	if cv.OtherParty("tenant") != "landlord" {
		t.Fatalf("tenant's counterpart is the landlord")
	}
	if cv.OtherParty("landlord") != "tenant" {
		t.Fatalf("landlord's counterpart is the tenant")
	}
}

func TestRevealedBy(t *testing.T) {
	cv := testConv()
	if cv.RevealedBy("tenant") || cv.RevealedBy("landlord") {
		t.Fatalf("no reveal flags set yet")
	}

	cv.TenantRevealed = true
	if !cv.RevealedBy("tenant") {
		t.Fatalf("tenant reveal flag must be read for the tenant")
	}
	if cv.RevealedBy("landlord") {
		t.Fatalf("landlord flag must stay independent")
	}
	if cv.RevealedBy("stranger") {
		t.Fatalf("non-participant never counts as revealed")
	}
}

func TestProfileRedactsPhone(t *testing.T) {
	u := User{
		BaseModel:   BaseModel{ID: "u1"},
		FirstName:   "Tess",
		LastName:    "Turner",
		PhoneNumber: "0700-1",
		Role:        RoleTenant,
	}

	hidden := u.Profile(false)
	if hidden.PhoneNumber != "" {
		t.Fatalf("phone must be redacted until revealed")
	}

	shown := u.Profile(true)
	if shown.PhoneNumber != "0700-1" {
		t.Fatalf("phone must be present once revealed")
	}
	if shown.ID != "u1" || shown.FirstName != "Tess" {
		t.Fatalf("profile fields lost: %+v", shown)
	}
}
