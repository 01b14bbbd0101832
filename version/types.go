package version

var (
	// SFAdapterVerMajor is the major version of sfadapter
	SFAdapterVerMajor = 0
	// SFAdapterVerMinor is the minor version of sfadapter
	SFAdapterVerMinor = 1
	// SFAdapterVerPatch is the patch version of sfadapter
	SFAdapterVerPatch = 0
	// SFAdapterVerName is an alternative name of the version
	SFAdapterVerName = "sfadapter"
	// GitHash is the current git commit hash, set at link time
	GitHash = "Unknown"
	// GitRef is the current git reference name (branch or tag), set at link time
	GitRef = "Unknown"
)
