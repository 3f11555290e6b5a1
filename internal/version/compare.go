package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckResultsCompatibility reports whether a results file written by
// fileVersion of the engine can be read by engineVersion. The results
// format is stable across patch releases, so major and minor must match
// while patch is free; "main" (development builds) skips the check.
func CheckResultsCompatibility(engineVersion, fileVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	fileVersion = strings.TrimPrefix(fileVersion, "v")

	if engineVersion == "main" || fileVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version '%s': %w", engineVersion, err)
	}

	fileSemver, err := semver.NewVersion(fileVersion)
	if err != nil {
		return fmt.Errorf("invalid results file version '%s': %w", fileVersion, err)
	}

	if engineSemver.Major() != fileSemver.Major() {
		return fmt.Errorf("major version mismatch: engine is %d.x.x but the results file was written by %d.x.x",
			engineSemver.Major(), fileSemver.Major())
	}

	if engineSemver.Minor() != fileSemver.Minor() {
		return fmt.Errorf("minor version mismatch: engine is %d.%d.x but the results file was written by %d.%d.x",
			engineSemver.Major(), engineSemver.Minor(),
			fileSemver.Major(), fileSemver.Minor())
	}

	return nil
}
