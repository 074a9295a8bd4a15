package config

import "os"

// ciEnvVars lists environment variables whose presence indicates a CI
// environment. The generic CI variable covers most modern providers;
// the rest are older systems that predate the convention.
var ciEnvVars = []string{
	"CI",
	"BUILD_NUMBER",  // Jenkins, TeamCity
	"JENKINS_URL",   // Jenkins
	"TEAMCITY_VERSION",
	"TF_BUILD",      // Azure Pipelines
}

// IsCI reports whether the process appears to be running under a
// continuous-integration environment. CI runs are never prompted:
// configuration recovery is refused and the telemetry gate prints a
// notice instead of asking for consent.
func IsCI() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}
