package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodecRoundTrip(t *testing.T) {
	c := jsonCodec{}
	assert.Equal(t, "json", c.Name())

	in := &SendOnePacketResponse{Offset: 42}
	data, err := c.Marshal(in)
	require.NoError(t, err)

	out := new(SendOnePacketResponse)
	require.NoError(t, c.Unmarshal(data, out))
	assert.Equal(t, in.Offset, out.Offset)
}
