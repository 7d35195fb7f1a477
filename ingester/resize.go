package ingester

import (
	"google.golang.org/grpc/codes"

	"github.com/packetstream/client-go/packet"
	"github.com/packetstream/client-go/status"
)

// resizeNearest resamples src to height x width with nearest-neighbor pixel
// selection. No third-party resize library appears anywhere in the
// reference corpus; this is the one deliberately stdlib-only piece of the
// ingester, kept simple since SendCodec=RawRGB resizing is a convenience,
// not a quality-sensitive path.
func resizeNearest(src packet.RawImage, height, width int) (packet.RawImage, *status.Status) {
	if height <= 0 || width <= 0 {
		return packet.RawImage{}, status.New(codes.InvalidArgument, "resize target dimensions must be positive")
	}
	channels, st := src.Channels()
	if !st.OK() {
		return packet.RawImage{}, st
	}

	dst, st := packet.NewRawImage(packet.RawImageDescriptor{
		Format: src.Format(),
		Height: height,
		Width:  width,
	})
	if !st.OK() {
		return packet.RawImage{}, st
	}

	srcH, srcW := src.Height(), src.Width()
	for y := 0; y < height; y++ {
		sy := y * srcH / height
		for x := 0; x < width; x++ {
			sx := x * srcW / width
			srcOffset := (sy*srcW + sx) * channels
			dstOffset := (y*width + x) * channels
			copy(dst.Data[dstOffset:dstOffset+channels], src.Data[srcOffset:srcOffset+channels])
		}
	}
	return dst, status.OK()
}
