package components

import "github.com/ozonewl/dhost/internal/ui/styles"

func logoLine1() string {
	return "  " +
		styles.AccentDark.Render("▛") +
		styles.AccentLight.Render("▀▀▀▀") +
		styles.AccentDark.Render("▜") +
		" "
}

func logoLine2() string {
	return "  " +
		styles.AccentMid.Render("▌") +
		styles.AccentLight.Render(" ▞▚ ") +
		styles.AccentMid.Render("▐") +
		" "
}

func logoLine3() string {
	return "  " +
		styles.AccentDark.Render("▙▄▄▄▄▟") +
		" "
}

type Header struct {
	version string
}

func NewHeader(version string) Header {
	return Header{version: version}
}

func (h Header) View() string {
	title := styles.Title.Render("dhost")
	version := styles.Version.Render(h.version)

	return "\n" + logoLine1() + " " + title + "\n" +
		logoLine2() + " " + version + "\n" +
		logoLine3() + "\n"
}
