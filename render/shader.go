package render

var blockVertexSource = `
#version 330 core

in vec3 aPos;
in vec2 aTexCoord;
in vec4 aColor;

uniform mat4 uProjMatrix;
uniform mat4 uViewMatrix;
uniform mat4 uModelMatrix;

out vec2 vTexCoord;
out vec4 vColor;

void main() {
	gl_Position = uProjMatrix * uViewMatrix * uModelMatrix * vec4(aPos, 1.0);
	vTexCoord = aTexCoord;
	vColor = aColor;
}
`

var blockFragmentSource = `
#version 330 core

in vec2 vTexCoord;
in vec4 vColor;

uniform sampler2D uSampler;

out vec4 fragColor;

void main() {
	vec4 color = texture(uSampler, vTexCoord);
	if (color.a < 0.1) {
		discard;
	}
	fragColor = color * vColor;
}
`
