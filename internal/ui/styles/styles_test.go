package styles

import "testing"

func TestAccentColorConstants(t *testing.T) {
	t.Parallel()

	if AccentDarkColor != "#1F7A6D" {
		t.Fatalf("unexpected AccentDarkColor: %s", AccentDarkColor)
	}
	if AccentMidColor != "#2FA39A" {
		t.Fatalf("unexpected AccentMidColor: %s", AccentMidColor)
	}
	if AccentLightColor != "#6FD3C7" {
		t.Fatalf("unexpected AccentLightColor: %s", AccentLightColor)
	}
}
