package types

import "testing"

func TestParseRuntimeMode(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"LOCAL", true},
		{"WORK_REMOTE", true},
		{"DEMO", true},
		{"AIRPLANE", true},
		{"local", false},
		{"REMOTE", false},
		{"", false},
	}

	for _, tt := range tests {
		_, ok := ParseRuntimeMode(tt.input)
		if ok != tt.valid {
			t.Errorf("ParseRuntimeMode(%q) valid = %v, want %v", tt.input, ok, tt.valid)
		}
	}
}

func TestRuntimeModeBackendAccess(t *testing.T) {
	tests := []struct {
		mode     RuntimeMode
		local    bool
		remote   bool
		drafting bool
	}{
		{ModeLocal, true, false, true},
		{ModeWorkRemote, false, true, true},
		{ModeDemo, false, true, true},
		{ModeAirplane, false, false, false},
	}

	for _, tt := range tests {
		if got := tt.mode.AllowsLocal(); got != tt.local {
			t.Errorf("%s.AllowsLocal() = %v, want %v", tt.mode, got, tt.local)
		}
		if got := tt.mode.AllowsRemote(); got != tt.remote {
			t.Errorf("%s.AllowsRemote() = %v, want %v", tt.mode, got, tt.remote)
		}
		if got := tt.mode.AllowsDrafting(); got != tt.drafting {
			t.Errorf("%s.AllowsDrafting() = %v, want %v", tt.mode, got, tt.drafting)
		}
	}
}

func TestNoModeAllowsBothBackends(t *testing.T) {
	for _, mode := range []RuntimeMode{ModeLocal, ModeWorkRemote, ModeDemo, ModeAirplane} {
		if mode.AllowsLocal() && mode.AllowsRemote() {
			t.Errorf("%s allows both backends; selection must be unambiguous", mode)
		}
	}
}
