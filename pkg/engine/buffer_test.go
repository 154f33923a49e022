package engine

import (
	"strings"
	"testing"
)

func TestPatchBufferInsertsMarker(t *testing.T) {
	buf := Buffer{Name: "main.code", Text: "let x: Int = "}
	patched := PatchBuffer(buf, len(buf.Text))

	if patched.Name != "main.code" {
		t.Errorf("patching changed the buffer name to %q", patched.Name)
	}
	if got, want := patched.Text, "let x: Int = "+marker; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Count(patched.Text, marker) != 1 {
		t.Error("expected exactly one marker")
	}
}

func TestPatchBufferMidText(t *testing.T) {
	buf := Buffer{Name: "main.code", Text: "abcdef"}
	patched := PatchBuffer(buf, 3)
	if patched.Text != "abc"+marker+"def" {
		t.Errorf("got %q", patched.Text)
	}
}

func TestPatchBufferClampsOffset(t *testing.T) {
	buf := Buffer{Name: "main.code", Text: "abc"}

	if got := PatchBuffer(buf, -5).Text; got != marker+"abc" {
		t.Errorf("negative offset: got %q", got)
	}
	if got := PatchBuffer(buf, 99).Text; got != "abc"+marker {
		t.Errorf("oversized offset: got %q", got)
	}
}
