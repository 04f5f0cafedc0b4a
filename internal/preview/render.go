package preview

import (
	"image"
	"math"

	"wobj-converter/internal/wobj"
)

// viewYaw and viewPitch give the fixed three-quarter camera angle used
// for preview renders.
const (
	viewYaw   = -35.0 * math.Pi / 180.0
	viewPitch = 22.0 * math.Pi / 180.0
)

// Render rasterizes a converted model into an NRGBA image of the given
// size using an orthographic three-quarter view. tex may be nil, in which
// case the model renders in a neutral gray.
func Render(doc *wobj.Document, tex *image.NRGBA, size, supersample int) *image.NRGBA {
	if len(doc.Vertices) == 0 || len(doc.Indices) < 3 {
		return image.NewNRGBA(image.Rect(0, 0, size, size))
	}
	if supersample < 1 {
		supersample = 1
	}
	renderSize := size * supersample

	px, py, pz, uvs := projectVertices(doc, renderSize, supersample)

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	var defR, defG, defB, defA uint8 = 160, 160, 170, 255
	if tex != nil {
		defR, defG, defB, defA = averageColor(tex)
	}

	for i := 0; i+2 < len(doc.Indices); i += 3 {
		vi := [3]int{int(doc.Indices[i]), int(doc.Indices[i+1]), int(doc.Indices[i+2])}
		RasterizeTriangle(fb, px, py, pz, uvs, vi, tex, defR, defG, defB, defA, &lc)
	}

	img := fb.Image()

	if supersample > 1 {
		img = Downsample(img, size)
	}
	return img
}

// projectVertices rotates the bind-pose vertices into view space and maps
// them to pixel coordinates, centered and scaled to fit the frame.
func projectVertices(doc *wobj.Document, renderSize, supersample int) (px, py, pz []float64, uvs [][2]float32) {
	cy, sy := math.Cos(viewYaw), math.Sin(viewYaw)
	cp, sp := math.Cos(viewPitch), math.Sin(viewPitch)

	n := len(doc.Vertices)
	px = make([]float64, n)
	py = make([]float64, n)
	pz = make([]float64, n)
	uvs = make([][2]float32, n)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for i, v := range doc.Vertices {
		x := float64(v.Position[0])
		y := float64(v.Position[1])
		z := float64(v.Position[2])

		// Yaw around Y, then pitch around X
		rx := x*cy + z*sy
		rz := -x*sy + z*cy
		ry := y*cp - rz*sp
		rz = y*sp + rz*cp

		px[i], py[i], pz[i] = rx, ry, rz
		uvs[i] = v.TexCoord

		if rx < minX {
			minX = rx
		}
		if rx > maxX {
			maxX = rx
		}
		if ry < minY {
			minY = ry
		}
		if ry > maxY {
			maxY = ry
		}
	}

	cx := (minX + maxX) / 2
	cyc := (minY + maxY) / 2
	span := maxX - minX
	if s := maxY - minY; s > span {
		span = s
	}
	if span < 0.001 {
		span = 0.001
	}

	margin := 16 * supersample
	scale := float64(renderSize-2*margin) / span
	half := float64(renderSize) / 2

	for i := range px {
		px[i] = (px[i]-cx)*scale + half
		// Flip Y: image coordinates grow downward
		py[i] = half - (py[i]-cyc)*scale
		pz[i] *= scale
	}
	return px, py, pz, uvs
}

func averageColor(tex *image.NRGBA) (uint8, uint8, uint8, uint8) {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 160, 160, 170, 255
	}

	var sumR, sumG, sumB float64
	stride := tex.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255
}
