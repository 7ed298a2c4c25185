package components

// CellProperties describes the shape and material of a microbe body.
// Read-only to the movement core.
type CellProperties struct {
	Membrane      uint8   // index into the config membrane table
	Rigidity      float32 // 0..1, stiffer membranes move worse
	HexCount      int32   // body size proxy
	IsBacteria    bool    // minimal body plan: no nucleus, reduced output
	RotationSpeed float32 // base rotation speed cap; lower = faster
}
