package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))

// PrintBanner prints the ASCII art banner.
func PrintBanner() {
	fmt.Fprintln(os.Stdout, bannerStyle.Render(` __     ___     _ _____
 \ \   / (_) __| |  ___|__  _ __ __ _  ___
  \ \ / /| |/ _`+"`"+` | |_ / _ \| '__/ _`+"`"+` |/ _ \
   \ V / | | (_| |  _| (_) | | | (_| |  __/
    \_/  |_|\__,_|_|  \___/|_|  \__, |\___|
                                |___/`))
}
