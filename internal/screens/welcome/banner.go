package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/boostup/folio/internal/ui/theme"
)

const bannerArt = `
 ██████╗  ██████╗  ██████╗ ███████╗████████╗██╗   ██╗██████╗
 ██╔══██╗██╔═══██╗██╔═══██╗██╔════╝╚══██╔══╝██║   ██║██╔══██╗
 ██████╔╝██║   ██║██║   ██║███████╗   ██║   ██║   ██║██████╔╝
 ██╔══██╗██║   ██║██║   ██║╚════██║   ██║   ██║   ██║██╔═══╝
 ██████╔╝╚██████╔╝╚██████╔╝███████║   ██║   ╚██████╔╝██║
 ╚═════╝  ╚═════╝  ╚═════╝ ╚══════╝   ╚═╝    ╚═════╝ ╚═╝`

const bannerArtBrand = "BoostUp"

// RenderBanner returns the brand banner styled in the primary color.
// The block art is only drawn for the stock brand and when there are at
// least 64 columns; otherwise the brand is letter-spaced.
func RenderBanner(brand string, width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if brand != bannerArtBrand || width < 64 {
		return style.Render(spaced(brand))
	}
	return style.Render(bannerArt)
}

func spaced(s string) string {
	return strings.Join(strings.Split(strings.ToUpper(s), ""), " ")
}
