package build_info

// Set with -ldflags during the build
var Version = "dev"
