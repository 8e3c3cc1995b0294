package effects

// Reveal is a one-shot visibility flag. It flips to visible the first time its
// element intersects the viewport and never reverts.
type Reveal struct {
	// Margin shrinks the viewport on both edges before testing intersection,
	// so an element must be this far inside to count.
	Margin float64

	visible bool
}

// Observe tests the element span [top, top+height) against the viewport span
// [viewTop, viewTop+viewHeight) and returns the visibility after the test.
func (r *Reveal) Observe(top, height, viewTop, viewHeight float64) bool {
	if r.visible {
		return true
	}
	lo := viewTop + r.Margin
	hi := viewTop + viewHeight - r.Margin
	if hi <= lo {
		// margin swallowed the viewport; fall back to the raw span
		lo, hi = viewTop, viewTop+viewHeight
	}
	if top < hi && top+height > lo {
		r.visible = true
	}
	return r.visible
}

// Visible reports whether the element has been revealed.
func (r *Reveal) Visible() bool {
	return r.visible
}
