package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"landscape/pkg/heightmap"
	"landscape/pkg/world"
)

// floats per interleaved vertex: position, normal, uv
const vertexStride = 3 + 3 + 2

// chunkBuffers holds the GPU copy of one chunk mesh
type chunkBuffers struct {
	vertexArray   uint32
	vertexBuffer  uint32
	elementBuffer uint32
	indexCount    int32
	model         mgl32.Mat4
}

// ChunkRenderer draws tessellated chunks with OpenGL. It must be used on the
// thread that owns the GL context.
type ChunkRenderer struct {
	shaderProgram uint32
	elevation     heightmap.Elevation
	chunks        map[world.ChunkCoord]*chunkBuffers

	// Shader uniforms
	modelLocation    int32
	viewLocation     int32
	projLocation     int32
	floorLocation    int32
	ceilingLocation  int32
	lightLocation    int32
	fogColorLocation int32
	fogDistLocation  int32
	gridLocation     int32

	LightDir    mgl32.Vec3
	FogColor    mgl32.Vec3
	FogDistance float32
	ShowGrid    bool
}

// NewChunkRenderer compiles the terrain shaders
func NewChunkRenderer(elevation heightmap.Elevation, fogDistance float32) (*ChunkRenderer, error) {
	r := &ChunkRenderer{
		elevation:   elevation,
		chunks:      make(map[world.ChunkCoord]*chunkBuffers),
		LightDir:    mgl32.Vec3{-0.4, -1, -0.3},
		FogColor:    mgl32.Vec3{0.62, 0.72, 0.82},
		FogDistance: fogDistance,
	}

	// Initialize basic GL settings
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(r.FogColor.X(), r.FogColor.Y(), r.FogColor.Z(), 1.0)

	var err error
	if r.shaderProgram, err = createShaderProgram(terrainVertexShaderSource, terrainFragmentShaderSource); err != nil {
		return nil, err
	}

	// Get uniform locations
	gl.UseProgram(r.shaderProgram)
	r.modelLocation = gl.GetUniformLocation(r.shaderProgram, gl.Str("model\x00"))
	r.viewLocation = gl.GetUniformLocation(r.shaderProgram, gl.Str("view\x00"))
	r.projLocation = gl.GetUniformLocation(r.shaderProgram, gl.Str("projection\x00"))
	r.floorLocation = gl.GetUniformLocation(r.shaderProgram, gl.Str("floorHeight\x00"))
	r.ceilingLocation = gl.GetUniformLocation(r.shaderProgram, gl.Str("ceilingHeight\x00"))
	r.lightLocation = gl.GetUniformLocation(r.shaderProgram, gl.Str("lightDir\x00"))
	r.fogColorLocation = gl.GetUniformLocation(r.shaderProgram, gl.Str("fogColor\x00"))
	r.fogDistLocation = gl.GetUniformLocation(r.shaderProgram, gl.Str("fogDistance\x00"))
	r.gridLocation = gl.GetUniformLocation(r.shaderProgram, gl.Str("showGrid\x00"))

	return r, nil
}

// Upload copies a chunk mesh to the GPU, replacing any earlier upload of the same chunk
func (r *ChunkRenderer) Upload(ch *world.Chunk) {
	m := ch.Mesh
	vertices := make([]float32, 0, len(m.Vertices)*vertexStride)
	for i, p := range m.Vertices {
		n := m.Normals[i]
		uv := m.UVs[i]
		vertices = append(vertices, p.X(), p.Y(), p.Z(), n.X(), n.Y(), n.Z(), uv.X(), uv.Y())
	}

	buf, ok := r.chunks[ch.Coord]
	if !ok {
		buf = &chunkBuffers{}
		gl.GenVertexArrays(1, &buf.vertexArray)
		gl.GenBuffers(1, &buf.vertexBuffer)
		gl.GenBuffers(1, &buf.elementBuffer)
		r.chunks[ch.Coord] = buf
	}

	gl.BindVertexArray(buf.vertexArray)

	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vertexBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.elementBuffer)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Triangles)*4, gl.Ptr(m.Triangles), gl.STATIC_DRAW)

	// Position attribute
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	// Normal attribute
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, vertexStride*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	// Texture coord attribute
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, vertexStride*4, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	buf.indexCount = int32(len(m.Triangles))
	buf.model = mgl32.Translate3D(ch.WorldPosition.X(), ch.WorldPosition.Y(), ch.WorldPosition.Z())
}

// UploadAll uploads every chunk
func (r *ChunkRenderer) UploadAll(chunks []*world.Chunk) {
	for _, ch := range chunks {
		r.Upload(ch)
	}
}

// Render clears the framebuffer and draws every uploaded chunk
func (r *ChunkRenderer) Render(view, projection mgl32.Mat4, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.shaderProgram)
	gl.UniformMatrix4fv(r.viewLocation, 1, false, &view[0])
	gl.UniformMatrix4fv(r.projLocation, 1, false, &projection[0])
	gl.Uniform1f(r.floorLocation, r.elevation.Floor)
	gl.Uniform1f(r.ceilingLocation, r.elevation.Ceiling)
	gl.Uniform3f(r.lightLocation, r.LightDir.X(), r.LightDir.Y(), r.LightDir.Z())
	gl.Uniform3f(r.fogColorLocation, r.FogColor.X(), r.FogColor.Y(), r.FogColor.Z())
	gl.Uniform1f(r.fogDistLocation, r.FogDistance)
	grid := int32(0)
	if r.ShowGrid {
		grid = 1
	}
	gl.Uniform1i(r.gridLocation, grid)

	for _, buf := range r.chunks {
		gl.UniformMatrix4fv(r.modelLocation, 1, false, &buf.model[0])
		gl.BindVertexArray(buf.vertexArray)
		gl.DrawElements(gl.TRIANGLES, buf.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	}
	gl.BindVertexArray(0)
}

// Close releases all OpenGL resources
func (r *ChunkRenderer) Close() {
	for coord, buf := range r.chunks {
		gl.DeleteVertexArrays(1, &buf.vertexArray)
		gl.DeleteBuffers(1, &buf.vertexBuffer)
		gl.DeleteBuffers(1, &buf.elementBuffer)
		delete(r.chunks, coord)
	}
	gl.DeleteProgram(r.shaderProgram)
}

// createShaderProgram compiles and links a shader program from source
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	// Check for linking errors
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		gl.DeleteProgram(program)
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)

		return 0, fmt.Errorf("shader program linking failed: %v", log)
	}

	// Shaders are no longer needed once linked
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

// compileShader compiles a shader from source
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
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

		return 0, fmt.Errorf("shader compilation failed: %v", log)
	}

	return shader, nil
}
