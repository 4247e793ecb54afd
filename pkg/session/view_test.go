package session

import "testing"

func TestRender_Chapter1Only(t *testing.T) {
	exp := testExperience()

	s := applyAll(exp, MarkerFound("marker1"))
	views := Render(&s, exp)

	if !views["chapter_1_text"].Visible {
		t.Error("Expected chapter 1 overlay visible")
	}
	if !views["crystal"].Visible {
		t.Error("Expected chapter 1 content visible")
	}
	for _, el := range []string{"chapter_2_text", "portal_ring", "chapter_3_text", "orb_a", "orb_b"} {
		if views[el].Visible {
			t.Errorf("Expected %s hidden while only chapter 1 is active", el)
		}
	}
}

func TestRender_PortalRevealsChapter3Content(t *testing.T) {
	exp := testExperience()

	// Chapter 3's content group becomes visible on portal activation,
	// before marker 3 has ever been found.
	s := applyAll(exp, MarkerFound("marker1"), MarkerFound("marker2"), Click("portal"))
	views := Render(&s, exp)

	if !views["orb_a"].Visible || !views["orb_b"].Visible {
		t.Error("Expected chapter 3 content visible after portal activation")
	}
	if views["chapter_3_text"].Visible {
		t.Error("Chapter 3 overlay should stay hidden until marker 3 is found")
	}
}

func TestRender_MarkerLostHidesOverlayAndContent(t *testing.T) {
	exp := testExperience()

	s := applyAll(exp, MarkerFound("marker1"), MarkerLost("marker1"))
	views := Render(&s, exp)

	if views["chapter_1_text"].Visible || views["crystal"].Visible {
		t.Error("Expected chapter 1 overlay and content hidden after marker lost")
	}
	if s.Progress != Chapter1Active {
		t.Errorf("Progress should stay chapter_1_active, got %s", s.Progress)
	}
}

func TestRender_OverlayTextComesFromChapter(t *testing.T) {
	exp := testExperience()

	s := applyAll(exp, MarkerFound("marker1"))
	views := Render(&s, exp)

	if views["chapter_1_text"].Text != "You found the artifact." {
		t.Errorf("Expected chapter overlay text, got %q", views["chapter_1_text"].Text)
	}
}

func TestRender_RevelationColorApplied(t *testing.T) {
	exp := testExperience()

	s := applyAll(exp,
		MarkerFound("marker1"), MarkerFound("marker2"), Click("portal"), Click("orb_a"),
	)
	views := Render(&s, exp)

	if views["orb_a"].Color != exp.Palette[1] {
		t.Errorf("Expected orb_a recolored to %s, got %s", exp.Palette[1], views["orb_a"].Color)
	}
	// Unclicked object keeps its base color.
	if views["orb_b"].Color != "#FFC65D" {
		t.Errorf("Expected orb_b base color, got %s", views["orb_b"].Color)
	}
}

func TestCompletionVisible(t *testing.T) {
	exp := testExperience()

	s := applyAll(exp, MarkerFound("marker1"), MarkerFound("marker2"), Click("portal"), Click("orb_a"))
	if CompletionVisible(&s) {
		t.Error("Completion message visible before all revelations clicked")
	}

	s, _ = Apply(s, exp, Click("orb_b"))
	if !CompletionVisible(&s) {
		t.Error("Expected completion message visible after completion")
	}
}
