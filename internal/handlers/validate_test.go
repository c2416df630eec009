package handlers

import (
	"strings"
	"testing"

	"bakuwaki/internal/models"
)

func TestValidateAuthorAndBody(t *testing.T) {
	tests := []struct {
		name     string
		username string
		content  string
		isAdmin  bool
		wantOK   bool
	}{
		{"valid", "Aki", "ホタルイカ見えました", false, true},
		{"empty username", "", "本文", false, false},
		{"empty content", "Aki", "", false, false},
		{"username at limit", strings.Repeat("あ", 30), "本文", false, true},
		{"username over limit", strings.Repeat("あ", 31), "本文", false, false},
		{"content at limit", "Aki", strings.Repeat("イ", 150), false, true},
		{"content over limit", "Aki", strings.Repeat("イ", 151), false, false},
		{"admin long content", "管理人", strings.Repeat("イ", 151), true, true},
		{"admin over limit", "管理人", strings.Repeat("イ", 1001), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateAuthorAndBody(tt.username, tt.content, tt.isAdmin)
			if (msg == "") != tt.wantOK {
				t.Errorf("got %q, wantOK=%v", msg, tt.wantOK)
			}
		})
	}
}

func TestValidLabel(t *testing.T) {
	if !models.ValidLabel(models.LabelLocalSighting, false) {
		t.Error("現地情報 must be valid for everyone")
	}
	if !models.ValidLabel(models.LabelOther, false) {
		t.Error("その他 must be valid for everyone")
	}
	if models.ValidLabel(models.LabelAdmin, false) {
		t.Error("管理者 must be rejected without an admin session")
	}
	if !models.ValidLabel(models.LabelAdmin, true) {
		t.Error("管理者 must be valid for admins")
	}
	if models.ValidLabel("unknown", true) {
		t.Error("unknown labels are invalid even for admins")
	}
	if models.ValidLabel("", false) {
		t.Error("empty label is invalid")
	}
}
