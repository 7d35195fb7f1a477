package mjpeg

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetstream/client-go/packet"
	"github.com/packetstream/client-go/status"
)

func encodeSolidJPEG(t *testing.T, width, height int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	return buf.Bytes()
}

func TestFeedDecodesAndInvokesCallback(t *testing.T) {
	payload := encodeSolidJPEG(t, 4, 4, color.RGBA{R: 200, G: 10, B: 10, A: 255})

	d := New()
	var got packet.RawImage
	var callbackFired bool
	d.SetCallback(func(img packet.RawImage) *status.Status {
		got = img
		callbackFired = true
		return status.OK()
	})

	st := d.Feed(payload, "image/jpeg")
	require.True(t, st.OK())
	assert.True(t, callbackFired)
	assert.Equal(t, 4, got.Height())
	assert.Equal(t, 4, got.Width())
	assert.Equal(t, packet.RawImageFormatSRGB, got.Format())
	assert.Equal(t, 4*4*3, got.Size())
}

func TestFeedRejectsGarbagePayload(t *testing.T) {
	d := New()
	d.SetCallback(func(packet.RawImage) *status.Status { return status.OK() })

	st := d.Feed([]byte("not a jpeg"), "image/jpeg")
	assert.False(t, st.OK())
}

func TestFeedAfterCloseFails(t *testing.T) {
	payload := encodeSolidJPEG(t, 2, 2, color.RGBA{A: 255})

	d := New()
	d.SetCallback(func(packet.RawImage) *status.Status { return status.OK() })
	require.True(t, d.Close().OK())

	st := d.Feed(payload, "image/jpeg")
	assert.False(t, st.OK())
}
