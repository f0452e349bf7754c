package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttboard/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45%. progress is clamped
// to 0-100.
func RenderProgress(progress, width int) string {
	progress = domain.ClampProgress(progress)
	width = max(2, width)

	filled := progress * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case progress < 33:
		style = StyleRed
	case progress < 66:
		style = StyleAmber
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), progress)
}
