package sheets

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"ms-nametags/internal/models"
)

// Letter portrait, in inches.
const (
	pageWidthIn  = 8.5
	pageHeightIn = 11.0
	marginIn     = 0.5
)

var borderColor = color.Gray{Y: 0x99}

// Renderer rasterises one page of badges.
type Renderer struct {
	DPI     int
	PrintQR bool

	regular *opentype.Font
	bold    *opentype.Font
}

func NewRenderer(dpi int, printQR bool) (*Renderer, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid DPI %d", dpi)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}
	return &Renderer{DPI: dpi, PrintQR: printQR, regular: regular, bold: bold}, nil
}

// PageBounds is the pixel size of a rendered page.
func (r *Renderer) PageBounds() image.Rectangle {
	return image.Rect(0, 0, r.px(pageWidthIn), r.px(pageHeightIn))
}

// BadgeBounds returns the area of badge slot i (0-based) on a page.
func (r *Renderer) BadgeBounds(i int) image.Rectangle {
	margin := r.px(marginIn)
	page := r.PageBounds()
	slotH := (page.Dy() - 2*margin) / PageSize
	top := margin + i*slotH
	return image.Rect(margin, top, page.Dx()-margin, top+slotH)
}

// RenderPage draws up to PageSize tags, top to bottom, on a white page.
func (r *Renderer) RenderPage(tags []models.Tag) (*image.RGBA, error) {
	if len(tags) > PageSize {
		return nil, fmt.Errorf("page holds %d badges, got %d", PageSize, len(tags))
	}

	img := image.NewRGBA(r.PageBounds())
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	faces, err := r.newFaces()
	if err != nil {
		return nil, err
	}
	defer faces.close()

	for i, tag := range tags {
		if err := r.drawBadge(img, r.BadgeBounds(i), tag, faces); err != nil {
			return nil, err
		}
	}
	return img, nil
}

type badgeFaces struct {
	name    font.Face
	surname font.Face
	detail  font.Face
}

func (f badgeFaces) close() {
	f.name.Close()
	f.surname.Close()
	f.detail.Close()
}

func (r *Renderer) newFaces() (badgeFaces, error) {
	mk := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     float64(r.DPI),
			Hinting: font.HintingFull,
		})
	}
	name, err := mk(r.bold, 40)
	if err != nil {
		return badgeFaces{}, fmt.Errorf("failed to build name face: %w", err)
	}
	surname, err := mk(r.bold, 26)
	if err != nil {
		name.Close()
		return badgeFaces{}, fmt.Errorf("failed to build surname face: %w", err)
	}
	detail, err := mk(r.regular, 13)
	if err != nil {
		name.Close()
		surname.Close()
		return badgeFaces{}, fmt.Errorf("failed to build detail face: %w", err)
	}
	return badgeFaces{name: name, surname: surname, detail: detail}, nil
}

func (r *Renderer) drawBadge(img *image.RGBA, area image.Rectangle, tag models.Tag, faces badgeFaces) error {
	strokeRect(img, area, max(1, r.DPI/75), borderColor)

	y := area.Min.Y + area.Dy()/3
	y = drawCentered(img, area, y, faces.name, tag.Name1)
	y = drawCentered(img, area, y, faces.surname, tag.Name2)
	y += r.px(0.15)
	for _, line := range detailLines(tag) {
		y = drawCentered(img, area, y, faces.detail, line)
	}

	if r.PrintQR && tag.ID != "" {
		side := r.px(1)
		code, err := BadgeQR(tag.ID, side)
		if err != nil {
			return err
		}
		inset := r.px(0.15)
		dst := image.Rect(area.Max.X-inset-side, area.Max.Y-inset-side, area.Max.X-inset, area.Max.Y-inset)
		draw.NearestNeighbor.Scale(img, dst, code, code.Bounds(), draw.Over, nil)
	}
	return nil
}

// detailLines is the small print under the name.
func detailLines(tag models.Tag) []string {
	var lines []string
	var head []string
	if tag.Yr != "" {
		head = append(head, "Class of "+tag.Yr)
	}
	if tag.Child != "" {
		head = append(head, tag.Child)
	}
	if len(head) > 0 {
		lines = append(lines, strings.Join(head, " · "))
	}
	for _, f := range []models.TagField{models.FieldUSEAdvanced, models.FieldAcadOrgs} {
		if v := tag.Get(f); v != "" {
			lines = append(lines, v)
		}
	}
	return lines
}

// drawCentered writes text on the baseline below y and returns the next y.
// Blank text still advances, so layouts stay aligned.
func drawCentered(img *image.RGBA, area image.Rectangle, y int, face font.Face, text string) int {
	metrics := face.Metrics()
	baseline := y + metrics.Ascent.Ceil()
	if text != "" {
		d := &font.Drawer{Dst: img, Src: image.Black, Face: face}
		width := d.MeasureString(text).Ceil()
		x := area.Min.X + (area.Dx()-width)/2
		if x < area.Min.X {
			x = area.Min.X
		}
		d.Dot = fixed.P(x, baseline)
		d.DrawString(text)
	}
	return baseline + metrics.Descent.Ceil()
}

func strokeRect(img *image.RGBA, r image.Rectangle, width int, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e, src, image.Point{}, draw.Src)
	}
}

func (r *Renderer) px(inches float64) int {
	return int(inches * float64(r.DPI))
}
