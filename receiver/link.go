package receiver

// LinkProfile describes the transmitter at the far end of the optical link.
// It is display/configuration metadata only; the decode hot path never
// reads it, since the receiver measures the actual chip period and layer
// amplitudes from the preamble and level check itself.
type LinkProfile struct {
	// TransmitterModel is a free-form description shown by diagnostics.
	TransmitterModel string
	// NominalChipRate is the chip rate (chips/second) the far end is
	// expected to run at.
	NominalChipRate float64
	// LayerCount is how many code layers the far end multiplexes. Always 2
	// for this protocol; kept in the config schema for forward
	// compatibility.
	LayerCount int
}

// DefaultProfile is used when no lumalink.toml names the transmitter.
func DefaultProfile() LinkProfile {
	return LinkProfile{
		TransmitterModel: "WARNING: unknown transmitter (file lumalink.toml not found)",
		NominalChipRate:  300,
		LayerCount:       2,
	}
}
