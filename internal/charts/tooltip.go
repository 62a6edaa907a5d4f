package charts

import (
	"math"

	"insightdash/internal/surface"
)

const (
	tooltipWidth  = 200.0
	tooltipMargin = 20.0
	tooltipOffset = 10.0
	tooltipLift   = 40.0

	// TooltipFadeIn and TooltipFadeOut are the opacity transitions in ms
	TooltipFadeIn  = 200
	TooltipFadeOut = 300
)

// TooltipPosition places the tooltip next to the pointer and keeps it inside
// the viewport.
func TooltipPosition(pageX, pageY, viewportWidth float64) (x, y float64) {
	x = pageX + tooltipOffset
	if viewportWidth > 0 {
		x = math.Min(x, viewportWidth-tooltipWidth-tooltipMargin)
	}
	y = math.Max(pageY-tooltipLift, tooltipMargin)
	return x, y
}

// hover wires mouseover/mousemove/mouseout on target to the tooltip. lines is
// evaluated when the pointer enters.
func hover(s surface.Surface, env Env, target string, lines []string) {
	if env.Tooltips == nil {
		return
	}
	show := func(ev *surface.Event) {
		x, y := TooltipPosition(ev.PageX, ev.PageY, env.Viewport.Width)
		env.Tooltips.ShowTooltip(surface.Tooltip{
			Visible: true,
			Lines:   lines,
			X:       x,
			Y:       y,
			FadeMS:  TooltipFadeIn,
		})
	}
	s.AttachHandler(target, surface.MouseOver, show)
	s.AttachHandler(target, surface.MouseMove, show)
	s.AttachHandler(target, surface.MouseOut, func(*surface.Event) {
		env.Tooltips.HideTooltip(TooltipFadeOut)
	})
}
