package banner

import (
	"hellod/internal/styles"

	"github.com/charmbracelet/lipgloss"
)

const ascii = `
    __         ____         __
   / /_  ___  / / /___  ____/ /
  / __ \/ _ \/ / / __ \/ __  / 
 / / / /  __/ / / /_/ / /_/ /  
/_/ /_/\___/_/_/\____/\__,_/   `

func GetString() string {
	style := lipgloss.DefaultRenderer().NewStyle().
		Foreground(styles.ColorBanner).
		Bold(true)

	return "\n" + style.Render(ascii) + "\n"
}
