//go:build !opengl

package compute

// NewOpenGLDevice reports that the binary was built without OpenGL support.
// Rebuild with -tags opengl,opengl43 to enable the GLSL compute device.
func NewOpenGLDevice() (Device, error) {
	return nil, ErrNoDevice
}
