package profile

import "testing"

func TestGet_Default(t *testing.T) {
	p, err := Get("")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name != DefaultName {
		t.Errorf("name: got %q, want %q", p.Name, DefaultName)
	}
	if p.Bound != 128 {
		t.Errorf("bound: got %d, want 128", p.Bound)
	}
}

func TestGet_Unknown(t *testing.T) {
	if _, err := Get("polaroid"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestProfiles_HaveKernels(t *testing.T) {
	for _, name := range Names() {
		p, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if _, err := p.Resizer(); err != nil {
			t.Errorf("profile %q: %v", name, err)
		}
	}
}
