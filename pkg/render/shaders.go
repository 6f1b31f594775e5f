package render

// Shader sources for the terrain chunk renderer

// Vertex shader: chunk-local positions moved to world space by the model matrix
const terrainVertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec3 Normal;
out vec2 TexCoord;
out float WorldHeight;
out float ViewDistance;

void main() {
    vec4 worldPos = model * vec4(aPos, 1.0);
    vec4 viewPos = view * worldPos;
    gl_Position = projection * viewPos;

    // Mesh normals arrive as unnormalized face sums
    Normal = aNormal;
    TexCoord = aTexCoord;
    WorldHeight = worldPos.y;
    ViewDistance = length(viewPos.xyz);
}
`

// Fragment shader: height-banded colour, one directional light and distance fog
const terrainFragmentShaderSource = `
#version 410 core
in vec3 Normal;
in vec2 TexCoord;
in float WorldHeight;
in float ViewDistance;
out vec4 FragColor;

uniform float floorHeight;
uniform float ceilingHeight;
uniform vec3 lightDir;
uniform vec3 fogColor;
uniform float fogDistance;
uniform int showGrid;

void main() {
    float h = clamp((WorldHeight - floorHeight) / max(ceilingHeight - floorHeight, 0.0001), 0.0, 1.0);

    vec3 water = vec3(0.16, 0.32, 0.55);
    vec3 sand = vec3(0.76, 0.70, 0.50);
    vec3 grass = vec3(0.30, 0.52, 0.22);
    vec3 rock = vec3(0.45, 0.40, 0.36);
    vec3 snow = vec3(0.95, 0.95, 0.97);

    vec3 base = water;
    base = mix(base, sand, smoothstep(0.05, 0.10, h));
    base = mix(base, grass, smoothstep(0.12, 0.25, h));
    base = mix(base, rock, smoothstep(0.50, 0.65, h));
    base = mix(base, snow, smoothstep(0.80, 0.90, h));

    vec3 n = normalize(Normal);
    // Steep faces read as rock
    base = mix(base, rock, smoothstep(0.6, 0.3, n.y));

    float diffuse = max(dot(n, normalize(-lightDir)), 0.0);
    vec3 color = base * (0.25 + 0.75 * diffuse);

    if (showGrid == 1) {
        vec2 cell = abs(fract(TexCoord * 16.0) - 0.5);
        if (min(cell.x, cell.y) < 0.02) {
            color *= 0.6;
        }
    }

    float fog = clamp(ViewDistance / fogDistance, 0.0, 1.0);
    FragColor = vec4(mix(color, fogColor, fog * fog), 1.0);
}
`
