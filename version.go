package mathcad

// Overridable at build time via -ldflags "-X".
var (
	Version   = "0.4.1"
	BuildDate = "unknown"
)
