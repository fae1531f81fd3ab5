package timerwindow

import "fyne.io/fyne/v2"

const (
	spriteSide = float32(120)
	rowGap     = float32(6)
)

// clockLayout stacks session label, clock and counter on the left and keeps
// a square sprite on the right.
type clockLayout struct{}

func (layout *clockLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 4 {
		return
	}
	session := objects[0]
	clock := objects[1]
	completed := objects[2]
	image := objects[3]

	pad := size.Height * 0.05
	side := size.Height - pad*2
	if side > spriteSide {
		side = spriteSide
	}
	if side > size.Width/3 {
		side = size.Width / 3
	}
	if side < 0 {
		side = 0
	}
	image.Move(fyne.NewPos(size.Width-pad-side, (size.Height-side)/2))
	image.Resize(fyne.NewSize(side, side))

	textWidth := size.Width - side - pad*3
	if textWidth < 0 {
		textWidth = 0
	}

	sessionSize := session.MinSize()
	clockSize := clock.MinSize()
	completedSize := completed.MinSize()
	blockHeight := sessionSize.Height + clockSize.Height + completedSize.Height + rowGap*2
	y := (size.Height - blockHeight) / 2
	if y < pad {
		y = pad
	}

	session.Move(fyne.NewPos(pad, y))
	session.Resize(fyne.NewSize(textWidth, sessionSize.Height))
	y += sessionSize.Height + rowGap

	clock.Move(fyne.NewPos(pad, y))
	clock.Resize(fyne.NewSize(textWidth, clockSize.Height))
	y += clockSize.Height + rowGap

	completed.Move(fyne.NewPos(pad, y))
	completed.Resize(fyne.NewSize(textWidth, completedSize.Height))
}

func (layout *clockLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 4 {
		return fyne.NewSize(0, 0)
	}
	sessionSize := objects[0].MinSize()
	clockSize := objects[1].MinSize()
	completedSize := objects[2].MinSize()

	width := sessionSize.Width
	if clockSize.Width > width {
		width = clockSize.Width
	}
	if completedSize.Width > width {
		width = completedSize.Width
	}
	height := sessionSize.Height + clockSize.Height + completedSize.Height + rowGap*2
	if height < spriteSide {
		height = spriteSide
	}
	return fyne.NewSize(width+spriteSide+24, height+16)
}
