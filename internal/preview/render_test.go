package preview

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wobj-converter/internal/wobj"
)

func triangleDoc() *wobj.Document {
	return &wobj.Document{
		Vertices: []wobj.Vertex{
			{Position: [3]float32{-1, -1, 0}},
			{Position: [3]float32{1, -1, 0}},
			{Position: [3]float32{0, 1, 0}},
		},
		Indices: []uint32{0, 1, 2},
	}
}

func TestRenderProducesPixels(t *testing.T) {
	img := Render(triangleDoc(), nil, 64, 1)

	require.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())

	covered := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			covered++
		}
	}
	assert.Greater(t, covered, 0, "triangle should cover at least one pixel")
}

func TestRenderEmptyDocument(t *testing.T) {
	img := Render(&wobj.Document{}, nil, 32, 2)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
	for i := 3; i < len(img.Pix); i += 4 {
		require.Zero(t, img.Pix[i])
	}
}

func TestRenderSupersampled(t *testing.T) {
	img := Render(triangleDoc(), nil, 32, 4)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
}

func TestRenderTextured(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			tex.SetNRGBA(x, y, color.NRGBA{R: 200, G: 50, B: 50, A: 255})
		}
	}

	doc := triangleDoc()
	doc.Vertices[0].TexCoord = [2]float32{0, 0}
	doc.Vertices[1].TexCoord = [2]float32{1, 0}
	doc.Vertices[2].TexCoord = [2]float32{0.5, 1}

	img := Render(doc, tex, 64, 1)

	reddish := false
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] > 0 && img.Pix[i] > img.Pix[i+2] {
			reddish = true
			break
		}
	}
	assert.True(t, reddish, "textured render should pick up the texture tint")
}

func TestDownsampleShrinks(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 128, 128))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	dst := Downsample(src, 32)
	assert.Equal(t, image.Rect(0, 0, 32, 32), dst.Bounds())

	// A solid white image stays white after the round trip.
	assert.Equal(t, uint8(255), dst.Pix[3])

	// Already-small images pass through untouched.
	same := Downsample(dst, 64)
	assert.Equal(t, dst, same)
}

func TestFrameBufferImage(t *testing.T) {
	fb := NewFrameBuffer(2, 2)
	fb.Color[0] = 10
	fb.Color[3] = 255

	img := fb.Image()
	require.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, uint8(10), img.Pix[0])
	assert.Equal(t, uint8(255), img.Pix[3])

	// The image owns its pixels.
	fb.Color[0] = 99
	assert.Equal(t, uint8(10), img.Pix[0])
}

func TestSampleTextureEmpty(t *testing.T) {
	r, g, b, a := SampleTexture(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 0.5, 0.5)
	assert.Equal(t, [4]uint8{0, 0, 0, 0}, [4]uint8{r, g, b, a})
}

func TestSampleTextureWraps(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	tex.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	tex.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	tex.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, A: 255})

	r, _, _, a := SampleTexture(tex, 0, 0)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(255), a)

	// One full wrap lands on the same texel.
	r2, g2, b2, a2 := SampleTexture(tex, 1.0, 1.0)
	r3, g3, b3, a3 := SampleTexture(tex, 0, 0)
	assert.Equal(t, [4]uint8{r3, g3, b3, a3}, [4]uint8{r2, g2, b2, a2})
}
