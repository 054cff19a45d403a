package render

// meshShader draws one node per bind group. params.w selects the grid line pattern
// (1) or lit mesh shading (0); rim.a turns the outline tint on.
const meshShader = `
struct Draw {
	view_proj: mat4x4<f32>,
	model: mat4x4<f32>,
	color: vec4<f32>,
	rim: vec4<f32>,
	params: vec4<f32>,
	eye: vec4<f32>,
	line: vec4<f32>,
	fade: vec4<f32>,
};

@group(0) @binding(0) var<uniform> draw: Draw;

struct VertexOut {
	@builtin(position) clip: vec4<f32>,
	@location(0) world: vec3<f32>,
	@location(1) normal: vec3<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) normal: vec3<f32>) -> VertexOut {
	var out: VertexOut;
	let world = draw.model * vec4<f32>(position, 1.0);
	out.clip = draw.view_proj * world;
	out.world = world.xyz;
	out.normal = (draw.model * vec4<f32>(normal, 0.0)).xyz;
	return out;
}

fn grid_line(coord: vec2<f32>, width: f32) -> f32 {
	let g = abs(fract(coord - 0.5) - 0.5);
	return 1.0 - smoothstep(0.0, width, min(g.x, g.y));
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	let dist = distance(in.world, draw.eye.xyz);
	if (draw.params.w > 0.5) {
		var fade = 1.0 - smoothstep(draw.fade.x, draw.fade.y, dist);
		fade = fade * fade * fade;
		let pattern = grid_line(in.world.xz, draw.line.w * 0.03);
		return vec4<f32>(mix(draw.color.rgb, draw.line.rgb, pattern * fade), 1.0);
	}

	let n = normalize(in.normal);
	let light = normalize(vec3<f32>(0.4, 1.0, 0.6));
	let diffuse = 0.35 + 0.65 * abs(dot(n, light));
	var rgb = draw.color.rgb * diffuse;
	if (draw.rim.a > 0.5) {
		let v = normalize(draw.eye.xyz - in.world);
		let edge = pow(1.0 - abs(dot(n, v)), max(draw.params.y, 1.0));
		let k = clamp(draw.params.x * (0.35 + edge * (1.0 + draw.params.z)), 0.0, 1.0);
		rgb = mix(rgb, draw.rim.rgb, k);
	}
	return vec4<f32>(rgb, 1.0);
}
`
