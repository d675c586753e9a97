package expansion

import "testing"

func TestCanBeginExpansion(t *testing.T) {
	tests := []struct {
		name        string
		ctx         BeginContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "can begin when idle",
			ctx:         BeginContext{State: StateIdle},
			wantAllowed: true,
		},
		{
			name:        "cannot begin while expanding",
			ctx:         BeginContext{State: StateExpanding},
			wantAllowed: false,
			wantReason:  "expansion already in progress",
		},
		{
			name:        "cannot begin on excluded site",
			ctx:         BeginContext{State: StateIdle, Excluded: true},
			wantAllowed: false,
			wantReason:  "expansion disabled on this site",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanBeginExpansion(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if tt.wantAllowed && result.Error() != nil {
				t.Errorf("Error() = %v, want nil", result.Error())
			}
		})
	}
}

func TestCanExpandSnippet(t *testing.T) {
	tests := []struct {
		name        string
		ctx         LookupContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "enabled snippet expands",
			ctx:         LookupContext{Shortcut: "/ty", Found: true, Enabled: true},
			wantAllowed: true,
		},
		{
			name:        "empty shortcut",
			ctx:         LookupContext{},
			wantAllowed: false,
			wantReason:  "no shortcut",
		},
		{
			name:        "miss",
			ctx:         LookupContext{Shortcut: "/zz"},
			wantAllowed: false,
			wantReason:  `no snippet for shortcut "/zz"`,
		},
		{
			name:        "disabled snippet never expands",
			ctx:         LookupContext{Shortcut: "/ty", Found: true, Enabled: false},
			wantAllowed: false,
			wantReason:  `snippet for shortcut "/ty" is disabled`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanExpandSnippet(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestIsTriggerKey(t *testing.T) {
	tests := []struct {
		mode TriggerMode
		code string
		want bool
	}{
		{TriggerSpace, KeySpace, true},
		{TriggerSpace, KeyTab, false},
		{TriggerTab, KeyTab, true},
		{TriggerEnter, KeyEnter, true},
		{TriggerEnter, "KeyA", false},
		{TriggerImmediate, KeySpace, false},
		{"", KeySpace, false},
	}

	for _, tt := range tests {
		if got := IsTriggerKey(tt.mode, tt.code); got != tt.want {
			t.Errorf("IsTriggerKey(%q, %q) = %v, want %v", tt.mode, tt.code, got, tt.want)
		}
	}
}

func TestParseTriggerMode(t *testing.T) {
	for _, s := range []string{"space", "tab", "enter", "immediate"} {
		if _, err := ParseTriggerMode(s); err != nil {
			t.Errorf("ParseTriggerMode(%q) error = %v", s, err)
		}
	}
	if _, err := ParseTriggerMode("shift"); err == nil {
		t.Error("expected error for unknown trigger key")
	}
}

func TestTrailingToken(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", ""},
		{"/ty", "/ty"},
		{"hello /ty", "/ty"},
		{"hello\n\t/sig", "/sig"},
		{"hello /ty ", ""},
		{"a  b", "b"},
		{"hi\u00a0/ty", "/ty"},
		{"hi /ty\u00a0", ""},
		{"caf\u00e9\u2003/ty", "/ty"},
	}

	for _, tt := range tests {
		if got := TrailingToken(tt.text); got != tt.want {
			t.Errorf("TrailingToken(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestIsExcludedHost(t *testing.T) {
	sites := []string{"mail.example.com", "https://bank.test/login", "*.corp.local", " "}

	tests := []struct {
		host string
		want bool
	}{
		{"mail.example.com", true},
		{"MAIL.example.com", true},
		{"inbox.mail.example.com", true},
		{"example.com", false},
		{"notmail.example.com", false},
		{"bank.test", true},
		{"bank.test:8443", true},
		{"intranet.corp.local", true},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsExcludedHost(tt.host, sites); got != tt.want {
			t.Errorf("IsExcludedHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}
