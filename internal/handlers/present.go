package handlers

import (
	"fmt"
	"strconv"

	"magblocks/internal/board"
	"magblocks/internal/splash"
	"magblocks/internal/viewmodel"
)

const (
	pageTitle    = "Blocos Magnéticos Infantis"
	pageSubtitle = "Brinquedo educativo com formas geométricas coloridas e conexões magnéticas"
	emptyHint    = "Adicione blocos para começar a construir!"
)

func buildSplash(v splash.View) viewmodel.Splash {
	return viewmodel.Splash{
		Title:    pageTitle,
		Subtitle: pageSubtitle,
		Phase:    v.Phase.String(),
		Visible:  v.Visible,
		Opaque:   v.Opaque,
		FadeOut:  v.FadeOut,
	}
}

func buildSurface(boardID string, snap board.Snapshot) viewmodel.Surface {
	out := viewmodel.Surface{
		BoardID:   boardID,
		Width:     int(snap.Surface.Width),
		Height:    int(snap.Surface.Height),
		BlockSize: int(snap.Surface.BlockSize),
		Animating: snap.Animating,
		Blocks:    make([]viewmodel.Block, 0, len(snap.Blocks)),
	}
	for _, b := range snap.Blocks {
		out.Blocks = append(out.Blocks, buildBlock(b, snap.Surface.BlockSize, b.ID == snap.Dragging))
	}
	if len(snap.Blocks) == 0 {
		out.EmptyHint = emptyHint
	}
	return out
}

func buildBlock(b board.Block, size float64, dragging bool) viewmodel.Block {
	color, _ := b.Color.Lookup()

	transition := "all 0.3s ease"
	if dragging {
		transition = "none"
	}
	brightness, z := "1", 5
	if b.Connected {
		brightness, z = "1.1", 10
	}
	px := formatFloat(size)
	half := formatFloat(size / 2)

	vb := viewmodel.Block{
		ID:         b.ID,
		Shape:      string(b.Shape),
		ColorName:  color.Name,
		Dragging:   dragging,
		RemoveText: "×",
		Style: fmt.Sprintf("left:%spx;top:%spx;transform:rotate(%sdeg);transition:%s;filter:brightness(%s);z-index:%d;",
			formatFloat(b.Position.X), formatFloat(b.Position.Y), formatFloat(b.Rotation), transition, brightness, z),
	}

	gradient := fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", color.Value, color.Shadow)
	switch b.Shape {
	case board.ShapeCube:
		vb.BodyStyle = fmt.Sprintf("width:%spx;height:%spx;border-radius:4px;background:%s;", px, px, gradient)
		vb.ShowDot = b.Connected
	case board.ShapeSphere:
		vb.BodyStyle = fmt.Sprintf("width:%spx;height:%spx;border-radius:50%%;background:radial-gradient(circle at 30%% 30%%, %s 0%%, %s 100%%);",
			px, px, color.Value, color.Shadow)
		vb.ShowDot = b.Connected
	case board.ShapeCylinder:
		vb.BodyStyle = fmt.Sprintf("width:%spx;height:%spx;border-radius:50%%;background:%s;", px, px, gradient)
		vb.CapStyle = fmt.Sprintf("background:linear-gradient(90deg, %s 0%%, rgba(255, 255, 255, 0.4) 50%%, %s 100%%);", color.Value, color.Shadow)
		vb.ShowDot = b.Connected
	case board.ShapePyramid:
		// Drawn as a border triangle, so it has no gradient and no center dot.
		vb.BodyStyle = fmt.Sprintf("width:0;height:0;border-left:%spx solid transparent;border-right:%spx solid transparent;border-bottom:%spx solid %s;filter:drop-shadow(0 0 4px %s);",
			half, half, px, color.Value, color.Shadow)
	}
	return vb
}

func buildControls(boardID string, snap board.Snapshot) viewmodel.Controls {
	label := "Animar Blocos"
	if snap.Animating {
		label = "Pausar Blocos"
	}
	return viewmodel.Controls{
		BoardID:      boardID,
		Count:        len(snap.Blocks),
		CountLabel:   "Total de blocos",
		Animating:    snap.Animating,
		AnimateLabel: label,
	}
}

func buildTemplate(boardID string, t board.Template) viewmodel.TemplatePanel {
	out := viewmodel.TemplatePanel{
		BoardID: boardID,
		Shapes:  make([]viewmodel.Option, 0, len(board.Shapes)),
		Colors:  make([]viewmodel.Option, 0, len(board.Palette)),
	}
	for _, s := range board.Shapes {
		out.Shapes = append(out.Shapes, viewmodel.Option{
			Value:    string(s.Shape),
			Label:    s.Name,
			Icon:     s.Icon,
			Selected: s.Shape == t.Shape,
		})
	}
	for _, c := range board.Palette {
		out.Colors = append(out.Colors, viewmodel.Option{
			Value:    string(c.ID),
			Label:    c.Name,
			Swatch:   c.Value,
			Selected: c.ID == t.Color,
		})
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
