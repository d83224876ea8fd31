package prompts

import "testing"

func TestHashText(t *testing.T) {
	a, b := HashText("prompt one"), HashText("prompt two")
	if a == b {
		t.Fatal("different texts hashed equal")
	}
	if HashText("prompt one") != a {
		t.Fatal("hash not stable")
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d, want 64", len(a))
	}
}
