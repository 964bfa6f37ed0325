package manifest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryDownloads_ArtifactVsClassifiersNil(t *testing.T) {
	raw := `{
		"name": "org.lwjgl:lwjgl:3.3.1",
		"downloads": {
			"classifiers": {
				"natives-linux": {"path": "org/lwjgl/lwjgl-natives-linux.jar", "url": "https://libraries.minecraft.net/x", "sha1": "abc", "size": 10}
			}
		},
		"natives": {"linux": "natives-linux"}
	}`

	var lib Library
	require.NoError(t, json.Unmarshal([]byte(raw), &lib))

	assert.Nil(t, lib.Downloads.Artifact, "natives-only library must not synthesize a main artifact")
	require.NotNil(t, lib.Downloads.Classifiers["natives-linux"])
	assert.Equal(t, "org/lwjgl/lwjgl-natives-linux.jar", lib.Downloads.Classifiers["natives-linux"].Path)
	require.NotNil(t, lib.Natives)
	assert.Equal(t, "natives-linux", lib.Natives.Linux)
	assert.Empty(t, lib.Natives.Windows)
}

func TestVersionDescriptor_RoundTrip(t *testing.T) {
	raw := `{
		"id": "1.20.1",
		"type": "release",
		"mainClass": "net.minecraft.client.main.Main",
		"assetIndex": {"id": "5", "url": "https://x/5.json", "sha1": "deadbeef", "size": 100},
		"downloads": {"client": {"url": "https://x/client.jar", "sha1": "cafef00d", "size": 200}},
		"libraries": [
			{"name": "com.mojang:brigadier:1.0.18", "downloads": {"artifact": {"path": "com/mojang/brigadier-1.0.18.jar", "url": "https://x/b.jar", "sha1": "aa", "size": 5}}}
		]
	}`

	var desc VersionDescriptor
	require.NoError(t, json.Unmarshal([]byte(raw), &desc))

	assert.Equal(t, "1.20.1", desc.ID)
	assert.Equal(t, "net.minecraft.client.main.Main", desc.MainClass)
	assert.Equal(t, "5", desc.AssetIndex.ID)
	assert.Equal(t, "https://x/client.jar", desc.Downloads.Client.URL)
	require.Len(t, desc.Libraries, 1)
	require.NotNil(t, desc.Libraries[0].Downloads.Artifact)
	assert.Equal(t, "com/mojang/brigadier-1.0.18.jar", desc.Libraries[0].Downloads.Artifact.Path)
}

func TestAssetObject_ObjectPath(t *testing.T) {
	obj := AssetObject{Hash: "a1b2c3d4"}
	assert.Equal(t, "a1/a1b2c3d4", obj.ObjectPath())

	short := AssetObject{Hash: "a"}
	assert.Equal(t, "a", short.ObjectPath())
}
