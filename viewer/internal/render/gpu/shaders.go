package gpu

// Os nomes de atributos e uniforms seguem as convenções do raylib, que
// preenche mvp, matModel, matNormal e os samplers texture0 (albedo) e
// texture2 (normal) sozinho em DrawMesh.

const cityVertexShader = `
#version 330

in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;

uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;

out vec3 fragWorldPos;
out vec2 fragTexCoord;
out vec3 fragNormal;

void main()
{
    fragWorldPos = vec3(matModel * vec4(vertexPosition, 1.0));
    fragTexCoord = vertexTexCoord;
    fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

const cityFragmentShader = `
#version 330

in vec3 fragWorldPos;
in vec2 fragTexCoord;
in vec3 fragNormal;

uniform sampler2D texture0; // albedo
uniform sampler2D texture2; // normal
uniform vec4 colDiffuse;
uniform vec3 lightDir;
uniform vec3 viewPos;

out vec4 finalColor;

// Base tangente a partir das derivadas de tela, sem atributo de tangente na malha.
mat3 cotangentFrame(vec3 N, vec3 p, vec2 uv)
{
    vec3 dp1 = dFdx(p);
    vec3 dp2 = dFdy(p);
    vec2 duv1 = dFdx(uv);
    vec2 duv2 = dFdy(uv);

    vec3 dp2perp = cross(dp2, N);
    vec3 dp1perp = cross(N, dp1);
    vec3 T = dp2perp * duv1.x + dp1perp * duv2.x;
    vec3 B = dp2perp * duv1.y + dp1perp * duv2.y;

    float invmax = inversesqrt(max(dot(T, T), dot(B, B)));
    return mat3(T * invmax, B * invmax, N);
}

void main()
{
    vec4 albedo = texture(texture0, fragTexCoord) * colDiffuse;

    vec3 N = normalize(fragNormal);
    vec3 mapN = texture(texture2, fragTexCoord).xyz * 2.0 - 1.0;
    N = normalize(cotangentFrame(N, fragWorldPos, fragTexCoord) * mapN);

    vec3 L = normalize(-lightDir);
    vec3 V = normalize(viewPos - fragWorldPos);
    vec3 H = normalize(L + V);

    // Lambert + Blinn-Phong com um termo ambiente fixo
    float diffuse = max(dot(N, L), 0.0);
    float specular = pow(max(dot(N, H), 0.0), 32.0) * 0.15;
    vec3 ambient = albedo.rgb * 0.25;

    vec3 color = ambient + albedo.rgb * diffuse + vec3(specular);

    // Correção gama
    finalColor = vec4(pow(color, vec3(1.0 / 2.2)), albedo.a);
}
`
