package platform

// Platform is the host the engine runs on: a native window or a headless
// stand-in. Input and resize notifications go through the core input and
// event systems.
type Platform interface {
	Startup(applicationName string, x, y, width, height uint32) error
	// PumpMessages processes pending OS messages. It returns false once the
	// platform wants the application to close.
	PumpMessages() bool
	// PixelRatio is the number of physical pixels per logical pixel.
	PixelRatio() float32
	GetAbsoluteTime() float64
	Sleep(ms float64)
	Shutdown() error
}
