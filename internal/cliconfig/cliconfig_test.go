package cliconfig

import "testing"

func TestParseDefaults(t *testing.T) {
	opt, err := Parse([]string{"-st", "trivialadd", "-fold", "x=4", "-pp"})
	if err != nil {
		t.Fatal(err)
	}
	if !opt.Combine || !opt.Cse {
		t.Error("combine and cse should default to enabled")
	}
	if !opt.PrintPseudo {
		t.Error("expected -pp to set PrintPseudo")
	}
}

func TestParseNoCombNoCse(t *testing.T) {
	opt, err := Parse([]string{"-st", "trivialadd", "-pp", "-nocomb", "-nocse"})
	if err != nil {
		t.Fatal(err)
	}
	if opt.Combine || opt.Cse {
		t.Error("expected -nocomb/-nocse to disable both passes")
	}
}

func TestParseRequiresStencil(t *testing.T) {
	if _, err := Parse([]string{"-pp"}); err == nil {
		t.Fatal("expected an error for a missing -st flag")
	}
}

func TestParseRequiresPrintMode(t *testing.T) {
	if _, err := Parse([]string{"-st", "trivialadd"}); err == nil {
		t.Fatal("expected an error when no print-mode flag is set")
	}
}
