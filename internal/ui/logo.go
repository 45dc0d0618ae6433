package ui

// logoText is the wordmark shown at the left of the header.
const logoText = "≋ tideline"

// renderLogo draws the wordmark on the header background.
func renderLogo(bg BgStyle, styles Styles) string {
	return bg.Render(logoText, styles.Logo)
}
