package launchcmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammwy/mcbootstrap-go/internal/manifest"
	"github.com/sammwy/mcbootstrap-go/internal/rules"
)

func baseInput() Input {
	return Input{
		JavaPath:     "/usr/bin/java",
		MaxMemoryMB:  2048,
		MinMemoryMB:  512,
		ClientJar:    "/mc/versions/1.20.1/1.20.1.jar",
		LibrariesDir: "/mc/libraries",
		MainClass:    "net.minecraft.client.main.Main",
		Username:     "Notch",
		VersionID:    "1.20.1",
		VersionType:  "release",
		MCDir:        "/mc",
		AssetsDir:    "/mc/assets",
		AssetIndexID: "5",
		Host:         rules.Host{OS: rules.Linux, Arch: "amd64"},
	}
}

func TestBuildArgv_FixedOrder(t *testing.T) {
	argv := BuildArgv(baseInput())

	require.GreaterOrEqual(t, len(argv), 3)
	assert.Equal(t, "/usr/bin/java", argv[0])
	assert.Equal(t, "-Xmx2048m", argv[1])
	assert.Equal(t, "-Xms512m", argv[2])

	joined := strings.Join(argv, " ")
	assert.Contains(t, joined, "-cp")
	assert.Contains(t, joined, "net.minecraft.client.main.Main")
	assert.Contains(t, joined, "--username Notch")
	assert.Contains(t, joined, "--version 1.20.1")
}

func TestBuildArgv_CustomArgsPreserveOrder(t *testing.T) {
	in := baseInput()
	in.JVMArgs = []KeyValue{{Key: "-Dfoo", Value: ""}, {Key: "-Dbar", Value: "baz"}}
	in.GameArgs = []KeyValue{{Key: "--server", Value: "mc.example.com"}}

	argv := BuildArgv(in)
	joined := strings.Join(argv, " ")

	assert.Contains(t, joined, "-Dfoo -Dbar baz")
	assert.Contains(t, joined, "--server mc.example.com")
}

func TestClasspath_SkipsNonAdmittedAndNativesOnlyLibraries(t *testing.T) {
	in := baseInput()
	in.Libraries = []manifest.Library{
		{
			Downloads: manifest.LibraryDownloads{Artifact: &manifest.Artifact{Path: "always/here.jar"}},
		},
		{
			Downloads: manifest.LibraryDownloads{Artifact: &manifest.Artifact{Path: "windows/only.jar"}},
			Rules:     []manifest.Rule{{Action: "allow", OS: &manifest.RuleOS{Name: "windows"}}},
		},
		{
			// natives-only: no main artifact
			Downloads: manifest.LibraryDownloads{Classifiers: map[string]*manifest.Artifact{
				"natives-linux": {Path: "natives/lwjgl.jar"},
			}},
		},
	}

	cp := classpath(in)
	assert.Contains(t, cp, "always/here.jar")
	assert.NotContains(t, cp, "windows/only.jar")
	assert.NotContains(t, cp, "natives/lwjgl.jar")
}
