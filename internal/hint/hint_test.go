package hint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/graph"
)

func samplePhantom() graph.PhantomEndpoint {
	return graph.PhantomEndpoint{
		Forward:            graph.DirectedSegment{EdgeID: 7, Enabled: true, Weight: 12.5, Offset: 3.25},
		Backward:           graph.DirectedSegment{EdgeID: 8, Enabled: false, Weight: 0, Offset: 0},
		NameID:             42,
		ComponentID:        3,
		TinyComponent:      true,
		Location:           graph.NewCoordinate(-6.2, 106.8),
		InputLocation:      graph.NewCoordinate(-6.2, 106.8),
		FwdSegmentPosition: 5,
		ForwardTravelMode:  graph.ModeDriving,
		BackwardTravelMode: graph.ModeWalking,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := samplePhantom()

	encoded, err := Encode(p, 0xCAFEBABE)
	require.NoError(t, err)

	decoded, err := Decode(encoded, 0xCAFEBABE, func(edgeID int32) int32 { return edgeID * 10 })
	require.NoError(t, err)

	require.Equal(t, p.Forward.EdgeID, decoded.Forward.EdgeID)
	require.Equal(t, p.Forward.Enabled, decoded.Forward.Enabled)
	require.InDelta(t, p.Forward.Weight, decoded.Forward.Weight, 0.01)
	require.Equal(t, p.Backward.Enabled, decoded.Backward.Enabled)
	require.Equal(t, p.NameID, decoded.NameID)
	require.Equal(t, p.ComponentID, decoded.ComponentID)
	require.Equal(t, p.TinyComponent, decoded.TinyComponent)
	require.Equal(t, p.Location, decoded.Location)
	require.Equal(t, p.FwdSegmentPosition, decoded.FwdSegmentPosition)
	require.Equal(t, p.ForwardTravelMode, decoded.ForwardTravelMode)
	require.Equal(t, p.BackwardTravelMode, decoded.BackwardTravelMode)
	require.Equal(t, int32(70), decoded.GeometryID)
}

func TestDecodeRejectsChecksumMismatch(t *testing.T) {
	encoded, err := Encode(samplePhantom(), 1)
	require.NoError(t, err)

	_, err = Decode(encoded, 2, nil)
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestDecodeRejectsMalformedHint(t *testing.T) {
	_, err := Decode("not-valid-base64!!", 1, nil)
	require.ErrorIs(t, err, ErrMalformed)
}
