package version

import (
	"fmt"
	"runtime"
)

// SFAdapterVersion is the semver of the adapter
type SFAdapterVersion struct {
	major int
	minor int
	patch int
	name  string
}

// NewSFAdapterVersion creates a SFAdapterVersion from the link-time variables
func NewSFAdapterVersion() *SFAdapterVersion {
	return &SFAdapterVersion{
		major: SFAdapterVerMajor,
		minor: SFAdapterVerMinor,
		patch: SFAdapterVerPatch,
		name:  SFAdapterVerName,
	}
}

func (v *SFAdapterVersion) Name() string {
	return v.name
}

// SemVer returns major.minor.patch
func (v *SFAdapterVersion) SemVer() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

func (v *SFAdapterVersion) String() string {
	return fmt.Sprintf("%s %s\n%s", v.SemVer(), v.name, NewSFAdapterBuildInfo())
}

// SFAdapterBuild describes the environment the binary was built in
type SFAdapterBuild struct {
	GitHash   string `json:"gitHash"`
	GitRef    string `json:"gitRef"`
	GoVersion string `json:"goVersion"`
}

func NewSFAdapterBuildInfo() *SFAdapterBuild {
	return &SFAdapterBuild{
		GitHash:   GitHash,
		GitRef:    GitRef,
		GoVersion: runtime.Version(),
	}
}

func (v *SFAdapterBuild) String() string {
	return fmt.Sprintf("Go Version: %s\nGit Ref: %s\nGitHash: %s", v.GoVersion, v.GitRef, v.GitHash)
}
