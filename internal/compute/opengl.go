//go:build opengl

package compute

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/gl/v4.3-core/gl"
)

const lifeComputeShader = `#version 430
layout(local_size_x = %d, local_size_y = %d) in;

layout(std430, binding = 0) readonly buffer Cur { uint cur[]; };
layout(std430, binding = 1) writeonly buffer Next { uint next[]; };

uniform int rows;
uniform int cols;

void main() {
	int c = int(gl_GlobalInvocationID.x);
	int r = int(gl_GlobalInvocationID.y);
	if (r >= rows || c >= cols) {
		return;
	}
	uint total = 0u;
	for (int dr = -1; dr <= 1; dr++) {
		int nr = r + dr;
		if (nr < 0 || nr >= rows) continue;
		for (int dc = -1; dc <= 1; dc++) {
			if (dr == 0 && dc == 0) continue;
			int nc = c + dc;
			if (nc < 0 || nc >= cols) continue;
			total += cur[nr * cols + nc];
		}
	}
	uint alive = cur[r * cols + c];
	next[r * cols + c] = (total == 3u || (alive == 1u && total == 2u)) ? 1u : 0u;
}
` + "\x00"

type glBuffer struct {
	id uint32
	n  int
}

func (b *glBuffer) Len() int { return b.n }

// OpenGLDevice runs the Life kernel as a GLSL compute shader over two shader
// storage buffers. It needs a 4.3 core context, which a hidden raylib window
// provides; build raylib with its opengl43 tag. When a raylib window is
// already open the device shares its context and leaves it open on Close.
// All calls must come from the goroutine that created the device.
type OpenGLDevice struct {
	program    uint32
	block      int
	locRows    int32
	locCols    int32
	staging    []uint32
	ownsWindow bool
	closed     bool
}

func NewOpenGLDevice() (Device, error) {
	runtime.LockOSThread()

	d := &OpenGLDevice{block: DefaultBlockSize}
	if !rl.IsWindowReady() {
		rl.SetTraceLogLevel(rl.LogWarning)
		rl.SetConfigFlags(rl.FlagWindowHidden)
		rl.InitWindow(1, 1, "golbench")
		if !rl.IsWindowReady() {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("%w: no GL context", ErrNoDevice)
		}
		d.ownsWindow = true
	}

	if err := gl.Init(); err != nil {
		d.release()
		return nil, fmt.Errorf("%w: failed to init opengl: %v", ErrNoDevice, err)
	}

	program, err := createComputeProgram(fmt.Sprintf(lifeComputeShader, d.block, d.block))
	if err != nil {
		d.release()
		return nil, err
	}
	d.program = program
	d.locRows = gl.GetUniformLocation(program, gl.Str("rows\x00"))
	d.locCols = gl.GetUniformLocation(program, gl.Str("cols\x00"))
	return d, nil
}

func (d *OpenGLDevice) Name() string    { return "opengl" }
func (d *OpenGLDevice) Available() bool { return !d.closed }

func (d *OpenGLDevice) Alloc(n int) (Buffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	b := &glBuffer{n: n}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.id)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, n*4, nil, gl.DYNAMIC_COPY)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &b.id)
		return nil, fmt.Errorf("glBufferData: error 0x%x", code)
	}
	return b, nil
}

func (d *OpenGLDevice) buffer(b Buffer) (*glBuffer, error) {
	gb, ok := b.(*glBuffer)
	if !ok {
		return nil, ErrForeignBuffer
	}
	return gb, nil
}

func (d *OpenGLDevice) stage(n int) []uint32 {
	if cap(d.staging) < n {
		d.staging = make([]uint32, n)
	}
	return d.staging[:n]
}

func (d *OpenGLDevice) Upload(dst Buffer, src []uint8) error {
	b, err := d.buffer(dst)
	if err != nil {
		return err
	}
	if len(src) > b.n {
		return ErrBufferSize
	}
	if len(src) == 0 {
		return nil
	}
	words := d.stage(len(src))
	for i, v := range src {
		words[i] = uint32(v)
	}
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.id)
	gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, 0, len(words)*4, gl.Ptr(&words[0]))
	return glError("glBufferSubData")
}

func (d *OpenGLDevice) Launch(cfg LaunchConfig, cur, next Buffer, rows, cols int) error {
	in, err := d.buffer(cur)
	if err != nil {
		return err
	}
	out, err := d.buffer(next)
	if err != nil {
		return err
	}
	if cfg.BlockX != d.block || cfg.BlockY != d.block {
		return fmt.Errorf("compute: shader compiled for %dx%d blocks, launch asks for %dx%d",
			d.block, d.block, cfg.BlockX, cfg.BlockY)
	}

	gl.UseProgram(d.program)
	gl.Uniform1i(d.locRows, int32(rows))
	gl.Uniform1i(d.locCols, int32(cols))
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, in.id)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, out.id)
	gl.DispatchCompute(uint32(cfg.GridX), uint32(cfg.GridY), 1)
	return glError("glDispatchCompute")
}

func (d *OpenGLDevice) Synchronize() error {
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT | gl.BUFFER_UPDATE_BARRIER_BIT)
	gl.Finish()
	return glError("glFinish")
}

func (d *OpenGLDevice) Download(dst []uint8, src Buffer) error {
	b, err := d.buffer(src)
	if err != nil {
		return err
	}
	if len(dst) > b.n {
		return ErrBufferSize
	}
	if len(dst) == 0 {
		return nil
	}
	words := d.stage(len(dst))
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.id)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, len(words)*4, unsafe.Pointer(&words[0]))
	if err := glError("glGetBufferSubData"); err != nil {
		return err
	}
	for i, w := range words {
		dst[i] = uint8(w)
	}
	return nil
}

func (d *OpenGLDevice) Free(b Buffer) {
	gb, err := d.buffer(b)
	if err != nil || gb.id == 0 {
		return
	}
	gl.DeleteBuffers(1, &gb.id)
	gb.id = 0
}

func (d *OpenGLDevice) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	gl.DeleteProgram(d.program)
	d.release()
	return nil
}

func (d *OpenGLDevice) release() {
	if d.ownsWindow {
		rl.CloseWindow()
	}
	runtime.UnlockOSThread()
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: error 0x%x", op, code)
	}
	return nil
}

func createComputeProgram(source string) (uint32, error) {
	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile compute shader: %v", log)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)
	gl.DeleteShader(shader)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link compute program")
	}
	return program, nil
}
