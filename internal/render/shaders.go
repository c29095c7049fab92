package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// toonVS passes world position and normal through; same attribute names as raylib meshes.
const (
	toonVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	// toonFS looks the half-Lambert term up in the ramp (texture0) so lighting falls into
	// the ramp's discrete bands.
	toonFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform sampler2D texture0;
uniform vec4 colDiffuse;
uniform vec3 lightDir;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  float ndl = dot(N, L) * 0.5 + 0.5;
  float band = texture(texture0, vec2(clamp(ndl, 0.0, 1.0), 0.5)).r;
  finalColor = vec4(colDiffuse.rgb * band, colDiffuse.a);
}
`
	unlitFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
out vec4 finalColor;
void main() {
  finalColor = colDiffuse;
}
`
)

// defaultLightDir points from the surface toward a key light above and in front.
var defaultLightDir = [3]float32{0.4, 1, 0.6}

func loadToonShader() rl.Shader {
	return rl.LoadShaderFromMemory(toonVS, toonFS)
}

func loadUnlitShader() rl.Shader {
	return rl.LoadShaderFromMemory(toonVS, unlitFS)
}

// setToonUniforms uploads the light direction (cgo-safe: local array).
func setToonUniforms(shader rl.Shader, lightDir [3]float32) {
	if !rl.IsShaderValid(shader) {
		return
	}
	dir := [3]float32{lightDir[0], lightDir[1], lightDir[2]}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, dir[:], rl.ShaderUniformVec3, 1)
	}
}
